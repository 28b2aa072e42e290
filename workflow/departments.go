package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
)

// ErrUnknownDepartment is returned for values outside the fixed pipeline.
var ErrUnknownDepartment = errors.New("unknown department")

// Style holds the display colours of a department column.
type Style struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Border     string `json:"border"`
}

var departmentStyles = map[models.Department]Style{
	models.DepartmentPickup:         {Background: "purple-200", Text: "purple-800", Border: "purple-400"},
	models.DepartmentDisassembly:    {Background: "red-200", Text: "red-800", Border: "red-400"},
	models.DepartmentSandblastingM1: {Background: "green-200", Text: "green-800", Border: "green-400"},
	models.DepartmentSandblastingM2: {Background: "green-400", Text: "green-900", Border: "green-600"},
	models.DepartmentSandingM1:      {Background: "blue-200", Text: "blue-800", Border: "blue-400"},
	models.DepartmentSandingM2:      {Background: "blue-400", Text: "blue-900", Border: "blue-600"},
	models.DepartmentSpraying:       {Background: "yellow-200", Text: "yellow-800", Border: "yellow-400"},
	models.DepartmentAssembly:       {Background: "red-400", Text: "red-900", Border: "red-600"},
	models.DepartmentDelivery:       {Background: "purple-400", Text: "purple-900", Border: "purple-600"},
}

// ParseDepartment converts user input into a Department. Surrounding
// whitespace is ignored; matching is otherwise exact.
func ParseDepartment(s string) (models.Department, error) {
	d := models.Department(strings.TrimSpace(s))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDepartment, s)
	}
	return d, nil
}

// Next returns the stage after d. ok is false for the last stage or an unknown department.
func Next(d models.Department) (models.Department, bool) {
	i := d.Index()
	deps := models.Departments()
	if i < 0 || i+1 >= len(deps) {
		return "", false
	}
	return deps[i+1], true
}

// Previous returns the stage before d. ok is false for the first stage or an unknown department.
func Previous(d models.Department) (models.Department, bool) {
	i := d.Index()
	if i <= 0 {
		return "", false
	}
	return models.Departments()[i-1], true
}

// StyleOf returns the display style for d.
func StyleOf(d models.Department) (Style, error) {
	s, ok := departmentStyles[d]
	if !ok {
		return Style{}, fmt.Errorf("%w: %q", ErrUnknownDepartment, d)
	}
	return s, nil
}

// DepartmentInfo is one entry of the department legend.
type DepartmentInfo struct {
	Name  models.Department `json:"name"`
	Index int               `json:"index"`
	Style Style             `json:"style"`
}

// Legend lists every department with its position and style.
func Legend() []DepartmentInfo {
	deps := models.Departments()
	out := make([]DepartmentInfo, 0, len(deps))
	for i, d := range deps {
		out = append(out, DepartmentInfo{Name: d, Index: i, Style: departmentStyles[d]})
	}
	return out
}
