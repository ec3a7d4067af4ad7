package review

import "github.com/Noah-Bakr/Teach-Team-sub001/internal/model"

// EmptySelectionMessage is shown instead of most/least when nobody is selected.
const EmptySelectionMessage = "No applicants have been selected yet."

// UserRef is one candidate in the overview.
type UserRef struct {
	UserID         int64  `json:"user_id"`
	Name           string `json:"name"`
	SelectionCount int    `json:"selection_count"`
}

// Overview partitions candidates by how often they were selected.
type Overview struct {
	Most         []UserRef `json:"most"`
	Least        []UserRef `json:"least"`
	Unselected   []UserRef `json:"unselected"`
	EmptyMessage string    `json:"empty_message,omitempty"`
}

// Summarize counts selected applications per user. Users with the highest
// positive count go to Most, the lowest positive count to Least (the same
// users when everyone ties) and users with none to Unselected. Each list keeps
// the order in which users first appear in applicants.
func Summarize(applicants []model.Applicant, names UserNamer) Overview {
	counts := make(map[int64]int)
	order := make([]int64, 0)
	for i := range applicants {
		uid := applicants[i].UserID
		if _, seen := counts[uid]; !seen {
			order = append(order, uid)
			counts[uid] = 0
		}
		if applicants[i].Selected {
			counts[uid]++
		}
	}

	maxCount, minCount := 0, 0
	for _, uid := range order {
		c := counts[uid]
		if c == 0 {
			continue
		}
		if c > maxCount {
			maxCount = c
		}
		if minCount == 0 || c < minCount {
			minCount = c
		}
	}

	ov := Overview{Most: []UserRef{}, Least: []UserRef{}, Unselected: []UserRef{}}
	for _, uid := range order {
		ref := UserRef{UserID: uid, Name: names.UserName(uid), SelectionCount: counts[uid]}
		switch {
		case ref.SelectionCount == 0:
			ov.Unselected = append(ov.Unselected, ref)
		default:
			if ref.SelectionCount == maxCount {
				ov.Most = append(ov.Most, ref)
			}
			if ref.SelectionCount == minCount {
				ov.Least = append(ov.Least, ref)
			}
		}
	}
	if maxCount == 0 {
		ov.EmptyMessage = EmptySelectionMessage
	}
	return ov
}
