package model

const (
	MeetingDateProposed = "proposed"
	VoteYes             = "yes"
)

type MeetingDate struct {
	ID           int64  `json:"id"`
	BookID       int64  `json:"book_id"`
	ProposedDate string `json:"proposed_date"`
	Status       string `json:"status"`
}

// DateCount is the number of availability votes for one proposed date.
type DateCount struct {
	ID           int64  `json:"id"`
	ProposedDate string `json:"proposed_date"`
	VoteCount    int    `json:"vote_count"`
}

type Voter struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// DateVoters lists who marked a proposed date as available.
type DateVoters struct {
	ProposedDate string  `json:"proposed_date"`
	Users        []Voter `json:"users"`
}
