package courses

// Course is the catalog entry rendered on the member training pages.
type Course struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Instructor         string `json:"instructor"`
	DurationMinutes    int    `json:"duration"`
	Level              string `json:"level"`
	RequiresMembership bool   `json:"requiresMembership"`
	Progress           int    `json:"progress,omitempty"`
}

// Enrollment tracks a member's progress through a course.
type Enrollment struct {
	ID       string `json:"id"`
	CourseID string `json:"courseId"`
	Progress int    `json:"progress"`
}

var mockCourses = []Course{
	{
		ID:              "curso-cardeal-leme",
		Title:           "Vida e Obra do Cardeal Leme",
		Description:     "A trajetória de Dom Sebastião Leme e sua influência na Igreja do Brasil.",
		Instructor:      "Pe. Rafael Nogueira",
		DurationMinutes: 480,
		Level:           "beginner",
	},
	{
		ID:                 "curso-doutrina-social",
		Title:              "Doutrina Social da Igreja",
		Description:        "Fundamentos da doutrina social aplicados à vida empresarial.",
		Instructor:         "Prof. Carlos Andrade",
		DurationMinutes:    720,
		Level:              "intermediate",
		RequiresMembership: true,
	},
}

// MockCourses returns a copy of the fallback catalog.
func MockCourses() []Course {
	out := make([]Course, len(mockCourses))
	copy(out, mockCourses)
	return out
}
