package zones

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestClassifyProperties verifies the classifier is total and
// deterministic over arbitrary segment text.
func TestClassifyProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("classification is deterministic", prop.ForAll(
		func(s string) bool {
			z1, ok1 := Classify(s)
			z2, ok2 := Classify(s)
			return z1 == z2 && ok1 == ok2
		},
		gen.AnyString(),
	))

	properties.Property("bonus labels always classify", prop.ForAll(
		func(n int) bool {
			z, ok := Classify(fmt.Sprintf("Bonus %d", n))
			return ok && z.Kind == KindBonus && z.Order == n && z.ID == fmt.Sprintf("bonus-%d", n)
		},
		gen.IntRange(0, 99),
	))

	properties.Property("course labels always classify", prop.ForAll(
		func(n int) bool {
			z, ok := Classify(fmt.Sprintf("Course %d", n))
			return ok && z.Kind == KindCourse && z.Order == n
		},
		gen.IntRange(0, 99),
	))

	properties.Property("kinds order bonus before course before segment", prop.ForAll(
		func(n int) bool {
			bonus, _ := Classify(fmt.Sprintf("Bonus %d", n))
			course, _ := Classify(fmt.Sprintf("Course %d", n))
			segment, _ := Classify(fmt.Sprintf("C%d", n))
			return Less(bonus, course) && Less(course, segment) && !Less(segment, bonus)
		},
		gen.IntRange(1, 99),
	))

	properties.TestingRun(t)
}
