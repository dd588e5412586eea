package dto

// StudentPatchRequest carries optional profile updates.
type StudentPatchRequest struct {
	Name     *string `json:"name"`
	LastName *string `json:"last_name"`
	CelPhone *string `json:"cel_phone"`
	Emotion  *string `json:"emotion"`
}

// StudentIDsRequest resolves student ids from emails.
type StudentIDsRequest struct {
	Emails []string `json:"emails"`
}

// StudentIDsResponse lists resolved student ids.
type StudentIDsResponse struct {
	StudentsID []string `json:"students_id"`
}

// AddPointsRequest credits coins to a student.
type AddPointsRequest struct {
	Points int `json:"points"`
}
