package core

import "fmt"

// QuarterDefinition is one of the four fixed three-month calendar groupings.
type QuarterDefinition struct {
	Label      string
	Months     [3]int
	MonthNames [3]string
}

// DefaultQuarters returns the calendar quarter table.
func DefaultQuarters() []QuarterDefinition {
	return []QuarterDefinition{
		{Label: "Q1", Months: [3]int{1, 2, 3}, MonthNames: [3]string{"Janeiro", "Fevereiro", "Março"}},
		{Label: "Q2", Months: [3]int{4, 5, 6}, MonthNames: [3]string{"Abril", "Maio", "Junho"}},
		{Label: "Q3", Months: [3]int{7, 8, 9}, MonthNames: [3]string{"Julho", "Agosto", "Setembro"}},
		{Label: "Q4", Months: [3]int{10, 11, 12}, MonthNames: [3]string{"Outubro", "Novembro", "Dezembro"}},
	}
}

// Matches reports whether sorted months equal the quarter's month set exactly.
func (q QuarterDefinition) Matches(sorted []int) bool {
	if len(sorted) != len(q.Months) {
		return false
	}
	for i, m := range q.Months {
		if sorted[i] != m {
			return false
		}
	}
	return true
}

// MonthName returns the display name of a month belonging to the quarter.
func (q QuarterDefinition) MonthName(month int) (string, bool) {
	for i, m := range q.Months {
		if m == month {
			return q.MonthNames[i], true
		}
	}
	return "", false
}

// QuarterKey is the "<Q> <YYYY>" key used by the consolidated label and the sync tabs.
func QuarterKey(label string, year int) string {
	return fmt.Sprintf("%s %d", label, year)
}
