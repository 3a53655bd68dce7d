package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// JobID identifies a job posting. Datasets and persisted bookmark
// payloads may carry ids as JSON strings or numbers; both decode to the
// same JobID.
type JobID string

func (id JobID) String() string { return string(id) }
func (id JobID) IsEmpty() bool  { return strings.TrimSpace(string(id)) == "" }

func (id *JobID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("job id: empty value")
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("job id: %w", err)
		}
		*id = JobID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("job id: %w", err)
	}
	*id = JobID(n.String())
	return nil
}

func (id *JobID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("job id: expected scalar at line %d", node.Line)
	}
	*id = JobID(node.Value)
	return nil
}

// UnknownCompany is shown when a job references a company id that the
// dataset does not define.
const UnknownCompany = "Unknown Company"

// Job is one posting from the dataset. Jobs are immutable once loaded;
// Company holds the display name resolved from CompanyID.
type Job struct {
	ID              JobID           `json:"id"`
	Title           string          `json:"title"`
	CompanyID       string          `json:"companyId"`
	Company         string          `json:"company"`
	Location        string          `json:"location"`
	JobType         JobType         `json:"jobType"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	Salary          int             `json:"salary"`
	Skills          []string        `json:"skills"`
	PostedDate      time.Time       `json:"postedDate"`
}

// HasSkill reports whether the job lists skill exactly.
func (j Job) HasSkill(skill string) bool {
	for _, s := range j.Skills {
		if s == skill {
			return true
		}
	}
	return false
}
