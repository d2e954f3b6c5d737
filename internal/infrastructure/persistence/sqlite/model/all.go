package model

// All lists every table in migration order.
func All() []any {
	return []any{
		&User{},
		&Team{},
		&TeamMember{},
		&Event{},
		&Format{},
		&Category{},
		&EventProposalCounter{},
		&Proposal{},
		&ProposalFormat{},
		&ProposalCategory{},
		&EventSpeaker{},
		&ProposalSpeaker{},
		&Review{},
		&CacheEntry{},
		&AppMeta{},
	}
}
