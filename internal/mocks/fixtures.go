package mocks

import (
	"sort"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/models"
)

// Map iteration order is random; listings come back sorted by id

func sortedCourses(m map[int]*models.Course) []models.Course {
	out := make([]models.Course, 0, len(m))
	for _, c := range m {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedLessons(m map[int]*models.Lesson) []models.Lesson {
	out := make([]models.Lesson, 0, len(m))
	for _, l := range m {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedUsers(m map[int]*models.User) []models.User {
	out := make([]models.User, 0, len(m))
	for _, u := range m {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// FieldError builds a 400 backend error with one message per field
func FieldError(fields map[string]string) error {
	f := make(map[string][]string, len(fields))
	for k, v := range fields {
		f[k] = []string{v}
	}
	return &backend.APIError{Method: "POST", StatusCode: 400, Fields: f}
}
