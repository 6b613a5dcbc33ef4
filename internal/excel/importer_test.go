package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/ankicode/internal/apperr"
	"github.com/example/ankicode/internal/tracker"
	"github.com/example/ankicode/pkg/models"
)

type fakeAdder struct {
	added []tracker.NewProblem
	seen  map[int]bool
}

func (f *fakeAdder) AddProblem(ctx context.Context, userID int64, in tracker.NewProblem) (*models.Problem, error) {
	if f.seen == nil {
		f.seen = map[int]bool{}
	}
	if in.LeetcodeID > 1000 {
		return nil, apperr.NotFound("leetcode problem %d not found", in.LeetcodeID)
	}
	if f.seen[in.LeetcodeID] {
		return nil, apperr.New(apperr.KindDuplicate, "problem %d is already in your list", in.LeetcodeID)
	}
	f.seen[in.LeetcodeID] = true
	f.added = append(f.added, in)
	return &models.Problem{LeetcodeID: in.LeetcodeID}, nil
}

func TestImportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.csv")
	content := "leetcode_id,deadline,notes\n" +
		"1,2024-01-05,hash map\n" +
		"#15, 2024/01/06 ,\n" +
		"1,2024-01-07,again\n" +
		",,\n" +
		"abc,2024-01-08,\n" +
		"20,next week,\n" +
		"4242,2024-01-09,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	adder := &fakeAdder{}
	cfg := DefaultImportConfig()
	cfg.FilePath = path
	result, err := ImportProblems(context.Background(), adder, 1, cfg)
	require.NoError(t, err)

	assert.Equal(t, 6, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "Row 6")
	assert.Contains(t, result.Errors[0], "invalid leetcode id")
	assert.Contains(t, result.Errors[1], "invalid deadline")
	assert.Contains(t, result.Errors[2], "4242 not found")

	require.Len(t, adder.added, 2)
	assert.Equal(t, "hash map", adder.added[0].Notes)
	assert.True(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC).Equal(adder.added[0].Deadline))
	assert.Equal(t, 15, adder.added[1].LeetcodeID)
	assert.True(t, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC).Equal(adder.added[1].Deadline))
}

func TestImportExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	f := excelize.NewFile()
	sheet := "Sheet1"
	require.NoError(t, f.SetCellValue(sheet, "A1", "LeetCode #"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Deadline"))
	require.NoError(t, f.SetCellValue(sheet, "C1", "Notes"))
	require.NoError(t, f.SetCellValue(sheet, "A2", 1))
	require.NoError(t, f.SetCellValue(sheet, "B2", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue(sheet, "C2", "warm-up"))
	require.NoError(t, f.SetCellValue(sheet, "A3", 206))
	require.NoError(t, f.SetCellValue(sheet, "B3", "2024-01-10"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	loc := time.FixedZone("UTC+8", 8*60*60)
	adder := &fakeAdder{}
	cfg := DefaultImportConfig()
	cfg.FilePath = path
	cfg.Location = loc
	result, err := ImportProblems(context.Background(), adder, 1, cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.Errors)
	require.Len(t, adder.added, 2)
	assert.Equal(t, 1, adder.added[0].LeetcodeID)
	assert.Equal(t, "warm-up", adder.added[0].Notes)
	assert.True(t, time.Date(2024, 1, 5, 0, 0, 0, 0, loc).Equal(adder.added[0].Deadline), "got %s", adder.added[0].Deadline)
	assert.True(t, time.Date(2024, 1, 10, 0, 0, 0, 0, loc).Equal(adder.added[1].Deadline))
}

func TestImportMissingFile(t *testing.T) {
	cfg := DefaultImportConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "missing.xlsx")
	_, err := ImportProblems(context.Background(), &fakeAdder{}, 1, cfg)
	assert.Error(t, err)
}

func TestColumnToIndex(t *testing.T) {
	assert.Equal(t, 0, columnToIndex("A"))
	assert.Equal(t, 2, columnToIndex("c"))
	assert.Equal(t, 26, columnToIndex("AA"))
}
