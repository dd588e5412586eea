package dto

// TeacherPatchRequest carries optional profile updates.
type TeacherPatchRequest struct {
	Name     *string `json:"name"`
	LastName *string `json:"last_name"`
	CelPhone *string `json:"cel_phone"`
}
