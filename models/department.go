package models

// Department is one stage of the restoration pipeline.
type Department string

const (
	DepartmentPickup         Department = "Pickup"
	DepartmentDisassembly    Department = "Disassembly"
	DepartmentSandblastingM1 Department = "Sandblasting M1"
	DepartmentSandblastingM2 Department = "Sandblasting M2"
	DepartmentSandingM1      Department = "Sanding M1"
	DepartmentSandingM2      Department = "Sanding M2"
	DepartmentSpraying       Department = "Spraying"
	DepartmentAssembly       Department = "Assembly"
	DepartmentDelivery       Department = "Delivery"
)

// departmentOrder is the fixed pipeline order. Every grouping, filter and
// next/previous lookup goes through this list.
var departmentOrder = [...]Department{
	DepartmentPickup,
	DepartmentDisassembly,
	DepartmentSandblastingM1,
	DepartmentSandblastingM2,
	DepartmentSandingM1,
	DepartmentSandingM2,
	DepartmentSpraying,
	DepartmentAssembly,
	DepartmentDelivery,
}

// Departments returns the pipeline stages in order.
func Departments() []Department {
	out := make([]Department, len(departmentOrder))
	copy(out, departmentOrder[:])
	return out
}

// Index returns the position of d in the pipeline, or -1 when d is not a known stage.
func (d Department) Index() int {
	for i, dep := range departmentOrder {
		if dep == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the pipeline stages.
func (d Department) Valid() bool {
	return d.Index() >= 0
}

func (d Department) String() string {
	return string(d)
}
