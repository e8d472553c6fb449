package training

import (
	"math"
	"math/rand"
	"sort"

	"github.com/cockroachdb/errors"
)

// ErrInsufficientData is returned when there are too few rows to hold any
// out for evaluation.
var ErrInsufficientData = errors.New("insufficient data")

// Split partitions row indices 0..n-1 into train and test sets. The test
// set holds ceil(testFraction*n) rows, kept within [1, n-1]. The split is
// stratified on y when there are at least ten rows, at least two classes,
// and every class has two members or more and can keep one in the training
// set. Otherwise rows are shuffled without regard to class. Both index sets
// are returned sorted.
func Split(n int, y []int, testFraction float64, seed int64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, errors.Wrapf(ErrInsufficientData, "%d rows, need at least 2", n)
	}
	if len(y) != n {
		return nil, nil, errors.Newf("%d labels for %d rows", len(y), n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.Newf("test fraction %v outside (0, 1)", testFraction)
	}

	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest < 1 {
		nTest = 1
	}
	if nTest > n-1 {
		nTest = n - 1
	}

	rng := rand.New(rand.NewSource(seed))
	byClass := groupByClass(y)
	if stratifiable(n, nTest, byClass) {
		train, test = stratifiedSplit(byClass, n, nTest, rng)
	} else {
		perm := rng.Perm(n)
		test = append(test, perm[:nTest]...)
		train = append(train, perm[nTest:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

type class struct {
	label int
	rows  []int
}

func groupByClass(y []int) []class {
	index := map[int]int{}
	var classes []class
	for i, v := range y {
		j, ok := index[v]
		if !ok {
			j = len(classes)
			index[v] = j
			classes = append(classes, class{label: v})
		}
		classes[j].rows = append(classes[j].rows, i)
	}
	sort.Slice(classes, func(a, b int) bool { return classes[a].label < classes[b].label })
	return classes
}

func stratifiable(n, nTest int, classes []class) bool {
	if n < 10 || len(classes) < 2 || nTest > n-len(classes) {
		return false
	}
	for _, c := range classes {
		if len(c.rows) < 2 {
			return false
		}
	}
	return true
}

// stratifiedSplit gives each class a share of the test set proportional to
// its size, rounding by largest remainder, and never moves a whole class
// into the test set.
func stratifiedSplit(classes []class, n, nTest int, rng *rand.Rand) (train, test []int) {
	quota := make([]int, len(classes))
	remainders := make([]float64, len(classes))
	assigned := 0
	for i, c := range classes {
		exact := float64(nTest) * float64(len(c.rows)) / float64(n)
		quota[i] = int(exact)
		remainders[i] = exact - float64(quota[i])
		assigned += quota[i]
	}
	order := make([]int, len(classes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return remainders[order[a]] > remainders[order[b]] })
	for k := 0; assigned < nTest; k = (k + 1) % len(order) {
		if i := order[k]; quota[i] < len(classes[i].rows)-1 {
			quota[i]++
			assigned++
		}
	}
	for i, c := range classes {
		rows := make([]int, len(c.rows))
		copy(rows, c.rows)
		rng.Shuffle(len(rows), func(a, b int) { rows[a], rows[b] = rows[b], rows[a] })
		test = append(test, rows[:quota[i]]...)
		train = append(train, rows[quota[i]:]...)
	}
	return train, test
}
