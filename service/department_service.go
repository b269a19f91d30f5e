package service

import "jansunwai/models"

// Higher-authority CC addresses attached by the reminder scheduler at
// escalated levels.
const (
	DistrictCollectorEmail   = "collector@delhi.gov.in"
	ChiefSecretaryEmail      = "cs@delhi.gov.in"
	ChiefMinisterOfficeEmail = "cmo@delhi.gov.in"
)

// DepartmentService is the static department contact directory keyed by
// complaint category. A lookup never fails: unknown categories route to the
// general-administration entry.
type DepartmentService struct {
	directory map[models.Category]*models.Department
}

// NewDepartmentService creates the directory with the default contact set.
func NewDepartmentService() *DepartmentService {
	return &DepartmentService{directory: defaultDirectory()}
}

// ForCategory returns the department responsible for a category.
func (s *DepartmentService) ForCategory(category models.Category) *models.Department {
	if d, ok := s.directory[category]; ok {
		return d
	}
	return s.directory[models.CategoryGeneral]
}

// ByName returns the department with the given name, or nil.
func (s *DepartmentService) ByName(name string) *models.Department {
	for _, d := range s.directory {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// ByCode returns the department with the given code, or nil.
func (s *DepartmentService) ByCode(code string) *models.Department {
	for _, d := range s.directory {
		if d.Code == code {
			return d
		}
	}
	return nil
}

// SetPasswordHash enables officer login for a department.
func (s *DepartmentService) SetPasswordHash(code, hash string) bool {
	d := s.ByCode(code)
	if d == nil {
		return false
	}
	d.PasswordHash = hash
	return true
}

func defaultDirectory() map[models.Category]*models.Department {
	return map[models.Category]*models.Department{
		models.CategoryElectricity: {
			Name:          "Delhi Electricity Regulatory Commission",
			Code:          "DERC",
			Email:         "complaints@derc.gov.in",
			Phone:         "011-23379920",
			Emergency:     "1912",
			Head:          "Chairperson, DERC",
			ResponseSLA:   48,
			ResolutionSLA: 120,
		},
		models.CategoryWater: {
			Name:          "Delhi Jal Board",
			Code:          "DJB",
			Email:         "complaints@delhijalboard.nic.in",
			Phone:         "1916",
			Emergency:     "1916",
			Head:          "CEO, Delhi Jal Board",
			ResponseSLA:   24,
			ResolutionSLA: 72,
		},
		models.CategoryRoad: {
			Name:          "Public Works Department",
			Code:          "PWD",
			Email:         "complaints@delhipwd.gov.in",
			Phone:         "011-23392400",
			Emergency:     "1073",
			Head:          "Chief Engineer, PWD",
			ResponseSLA:   72,
			ResolutionSLA: 168,
		},
		models.CategorySanitation: {
			Name:          "Municipal Corporation of Delhi",
			Code:          "MCD",
			Email:         "complaints@mcdonline.gov.in",
			Phone:         "1800-11-0095",
			Emergency:     "1073",
			Head:          "Commissioner, MCD",
			ResponseSLA:   48,
			ResolutionSLA: 120,
		},
		models.CategoryHealth: {
			Name:          "Department of Health & Family Welfare",
			Code:          "DHFW",
			Email:         "health@delhi.gov.in",
			Phone:         "011-23392155",
			Emergency:     "102",
			Head:          "Director, Health Services",
			ResponseSLA:   12,
			ResolutionSLA: 48,
		},
		models.CategoryGeneral: {
			Name:          "District Collector Office",
			Code:          "DCO",
			Email:         "collector@delhi.gov.in",
			Phone:         "011-23392000",
			Emergency:     "100",
			Head:          "District Collector",
			ResponseSLA:   48,
			ResolutionSLA: 168,
		},
	}
}
