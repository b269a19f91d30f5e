package models

// Department is one entry of the department contact directory. SLA fields are
// directory metadata from the source registers; deadline math uses the
// urgency table, never these.
type Department struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Emergency     string `json:"emergency"`
	Head          string `json:"head"`
	ResponseSLA   int    `json:"response_sla"`
	ResolutionSLA int    `json:"resolution_sla"`

	// PasswordHash is the bcrypt hash officers of this department log in
	// with. Empty = login disabled for the department.
	PasswordHash string `json:"-"`
}

// TemplateData flattens the directory entry into reminder template fields.
func (d *Department) TemplateData() map[string]string {
	return map[string]string{
		"department_name":  d.Name,
		"department_code":  d.Code,
		"department_email": d.Email,
		"department_phone": d.Phone,
		"department_head":  d.Head,
	}
}
