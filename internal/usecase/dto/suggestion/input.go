package suggestiondto

type ProposeRateInput struct {
	EntryID       string
	ContributorID string
	ProposedRate  float64
	Reason        string
}
