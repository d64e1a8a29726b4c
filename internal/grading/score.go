package grading

import "github.com/cs4273g/callreview/internal/models"

// Percentage computes the scalar grade for a set of per-question results
// using the fixed scripted-questioning key:
//
//	1 Asked Correctly     full credit
//	2 Not Asked           no credit
//	3 Asked Incorrectly   no credit
//	4 Not As Scripted     half credit
//	5 N/A                 excluded
//	6 Obvious             full credit
//	RC Recorded Correctly excluded
//
// Unknown codes count against the grade, same as Not Asked. An empty or
// fully-excluded result set grades 0.
func Percentage(perQuestion map[string]models.QuestionResult) float64 {
	var earned, total float64

	for _, q := range perQuestion {
		switch q.Code {
		case models.CodeNotApplicable, models.CodeRecordedCorrectly:
			continue
		case models.CodeAskedCorrectly, models.CodeObvious:
			earned++
		case models.CodeNotAsScripted:
			earned += 0.5
		}
		total++
	}

	if total == 0 {
		return 0
	}
	return earned / total * 100
}
