package dto

// ReportWindowParams selects the trailing window of a report, in days.
type ReportWindowParams struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}

// TopBusinessesParams defines query parameters for the revenue leaderboard.
type TopBusinessesParams struct {
	Days  int `form:"days" binding:"omitempty,min=1,max=365"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ListPayrollRunsParams defines query parameters for payroll history.
type ListPayrollRunsParams struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
