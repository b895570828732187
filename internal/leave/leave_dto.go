package leave

import (
	"strings"

	"go-leave/internal/model"
)

// ListFilter narrows a listing. Zero values match everything.
type ListFilter struct {
	Status     model.Status `form:"status"`
	Department string       `form:"department"`
}

func (f ListFilter) Empty() bool {
	return f.Status == "" && f.Department == ""
}

func (f ListFilter) Match(r model.LeaveRequest) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Department != "" && !strings.EqualFold(r.Department, f.Department) {
		return false
	}
	return true
}

// Apply returns the matching requests in their original order. The result
// never aliases reqs.
func (f ListFilter) Apply(reqs []model.LeaveRequest) []model.LeaveRequest {
	out := make([]model.LeaveRequest, 0, len(reqs))
	for _, r := range reqs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func computeStats(reqs []model.LeaveRequest) Stats {
	s := Stats{Total: len(reqs)}
	for _, r := range reqs {
		switch r.Status {
		case model.StatusPending:
			s.Pending++
		case model.StatusApproved:
			s.Approved++
		case model.StatusRejected:
			s.Rejected++
		}
	}
	return s
}

// ConflictDetails is the body detail of a 409 on update.
type ConflictDetails struct {
	ID       string       `json:"id"`
	Expected model.Status `json:"expectedStatus"`
	Actual   model.Status `json:"actualStatus"`
}
