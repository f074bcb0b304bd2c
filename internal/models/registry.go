package models

// All returns one zero value of every persisted record, in migration order.
func All() []any {
	return []any{
		&RecruitmentProcess{},
		&TOR{},
		&StaffRequisition{},
		&RequisitionReview{},
		&VacancyAnnouncement{},
		&ApplicationIntake{},
		&Committee{},
		&Candidate{},
		&CandidateApplication{},
		&LonglistingRound{},
		&LonglistingCandidate{},
		&ShortlistingRound{},
		&ShortlistingCandidate{},
		&WrittenTest{},
		&WrittenTestCandidate{},
		&InterviewRound{},
		&InterviewCandidate{},
		&RecruitmentReport{},
		&Offer{},
		&SanctionDeclaration{},
		&BackgroundCheck{},
		&EmploymentContract{},
		&FileChecklist{},
	}
}
