package projection

import (
	"github.com/tagit-app/tagit-go/internal/models"
)

// StatusColor is the dashboard display class for a report status.
type StatusColor string

const (
	ColorWarning StatusColor = "warning"
	ColorSuccess StatusColor = "success"
	ColorDanger  StatusColor = "danger"
	ColorNeutral StatusColor = "neutral"
)

func colorFor(status models.ReportStatus) StatusColor {
	switch status {
	case models.StatusSent:
		return ColorWarning
	case models.StatusAccepted, models.StatusHelpArriving:
		return ColorSuccess
	case models.StatusBackupTriggered:
		return ColorDanger
	case models.StatusResolved:
		return ColorNeutral
	default:
		return ColorNeutral
	}
}

// CitizenReport is a stored report annotated for the citizen dashboard.
type CitizenReport struct {
	models.Report
	StatusColor StatusColor `json:"statusColor"`
	Icon        string      `json:"icon"`
}

// Citizen projects all reports, most-recent-first, for the submitting
// citizen's dashboard. Pure function of the stored sequence.
func Citizen(reports []models.Report) []CitizenReport {
	out := make([]CitizenReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, CitizenReport{
			Report:      r,
			StatusColor: colorFor(r.Status),
			Icon:        r.Tag.Info().Icon,
		})
	}
	return out
}

// AuthorityReport is a bucket member with the detail an authority
// viewer sees.
type AuthorityReport struct {
	models.Report
	SubmitterName string `json:"submitterName"`
}

// TagBucket groups an authority's visible reports by tag.
type TagBucket struct {
	Tag     models.Tag        `json:"tag"`
	Icon    string            `json:"icon"`
	Count   int               `json:"count"`
	Reports []AuthorityReport `json:"reports"`
}

// visibleTags returns the tag filter for an authority type, nil meaning
// all tags. Police and unknown types see everything.
func visibleTags(authorityType string) []models.Tag {
	switch authorityType {
	case "Fire":
		return []models.Tag{models.TagFire}
	case "Health":
		return []models.Tag{models.TagHealth, models.TagAnimal}
	case "Nagar Nigam", "Safety":
		return []models.Tag{models.TagComplaints}
	default: // Police and any other type
		return nil
	}
}

// Authority filters the stored reports for an authority viewer and
// groups them into per-tag buckets with counts, preserving
// most-recent-first order inside each bucket.
func Authority(authorityType string, reports []models.Report) []TagBucket {
	allowed := visibleTags(authorityType)

	buckets := make(map[models.Tag]*TagBucket)
	var order []models.Tag

	for _, r := range reports {
		if allowed != nil && !contains(allowed, r.Tag) {
			continue
		}
		b, ok := buckets[r.Tag]
		if !ok {
			b = &TagBucket{Tag: r.Tag, Icon: r.Tag.Info().Icon}
			buckets[r.Tag] = b
			order = append(order, r.Tag)
		}

		name := "Anonymous User"
		if r.Submitter != nil && r.Submitter.Name != "" {
			name = r.Submitter.Name
		}
		b.Reports = append(b.Reports, AuthorityReport{Report: r, SubmitterName: name})
		b.Count++
	}

	out := make([]TagBucket, 0, len(order))
	for _, tag := range order {
		out = append(out, *buckets[tag])
	}
	return out
}

func contains(tags []models.Tag, tag models.Tag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
