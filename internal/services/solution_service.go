package services

import (
	"fmt"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type SolutionService interface {
	Find(questionNumber int) (*models.Solution, error)
}

type fileSolutionService struct {
	dir string
}

// NewSolutionService serves solutions stored as files named NNNN-<slug>.py in dir.
func NewSolutionService(dir string) SolutionService {
	return &fileSolutionService{dir: dir}
}

func (s *fileSolutionService) Find(questionNumber int) (*models.Solution, error) {
	if questionNumber <= 0 {
		return nil, errors.Invalid("Missing questionNumber from path")
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read solutions directory")
	}

	prefix := fmt.Sprintf("%04d", questionNumber)
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, &errors.Error{
			Err:     errors.ErrNotFound,
			Message: fmt.Sprintf("No solution file found for question %d", questionNumber),
			Code:    "NOT_FOUND",
		}
	}
	sort.Strings(names)

	content, err := os.ReadFile(filepath.Join(s.dir, names[0]))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read solution file")
	}

	return &models.Solution{Solution: "```py\n" + string(content) + "\n```"}, nil
}
