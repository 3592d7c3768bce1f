package directory

import (
	"strings"

	"github.com/tagit-app/tagit-go/internal/models"
)

// Simulated authority database keyed by pincode prefix.
var authorityDB = map[string]models.AuthorityRecord{
	"452": {Name: "Indore Fire Station", Type: "fire", Contact: "fire@indore.gov"},
	"453": {Name: "Indore Police Station", Type: "police", Contact: "police@indore.gov"},
	"110": {Name: "New Delhi Police", Type: "police", Contact: "police@delhi.gov"},
}

const genericContact = "contact@city.gov"

// Resolve routes a report to a responsible authority by the first three
// digits of its pincode, synthesizing a tag-based fallback when the
// prefix is unlisted. Pure and deterministic.
func Resolve(pincode string, tag models.Tag) models.AuthorityRecord {
	if pincode == "" {
		return models.AuthorityRecord{
			Name:    "City Emergency Center",
			Type:    "general",
			Contact: "help@city.gov",
		}
	}

	prefix := pincode
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if rec, ok := authorityDB[prefix]; ok {
		return rec
	}

	name := "Municipal Office"
	switch tag {
	case models.TagFire:
		name = "Nearest Fire Station"
	case models.TagViolence, models.TagSOS:
		name = "Nearest Police Station"
	}

	return models.AuthorityRecord{
		Name:    name,
		Type:    strings.ToLower(string(tag)),
		Contact: genericContact,
	}
}
