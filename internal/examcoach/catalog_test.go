package examcoach

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_WeightageSumsToHundred(t *testing.T) {
	for _, exam := range DefaultCatalog().Exams() {
		sum := 0
		for _, s := range exam.Subjects {
			w, ok := exam.Weightage[s]
			require.True(t, ok, "%s missing weightage for %s", exam.ID, s)
			sum += w
		}
		assert.Equal(t, 100, sum, exam.ID)
		assert.Positive(t, exam.MaxMarks, exam.ID)
	}
}

func TestDefaultCatalog_Lookups(t *testing.T) {
	c := DefaultCatalog()

	_, ok := c.Exam("gate")
	assert.False(t, ok)

	for _, exam := range c.Exams() {
		_, ok := c.Strategy(exam.ID)
		assert.True(t, ok, "strategy for %s", exam.ID)
		for _, s := range exam.Subjects {
			assert.NotEmpty(t, c.Chapters(s), "chapters for %s", s)
		}
	}
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := DefaultCatalog()
	chapters := c.Chapters("Physics")
	require.NotEmpty(t, chapters)
	chapters[0] = "changed"
	assert.NotEqual(t, "changed", c.Chapters("Physics")[0])

	exams := c.Exams()
	exams[0].ID = "changed"
	_, ok := c.Exam("changed")
	assert.False(t, ok)
}
