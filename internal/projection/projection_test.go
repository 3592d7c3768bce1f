package projection

import (
	"testing"
	"time"

	"github.com/tagit-app/tagit-go/internal/models"
)

func report(id string, tag models.Tag, status models.ReportStatus) models.Report {
	return models.Report{
		ID:        id,
		Tag:       tag,
		Status:    status,
		CreatedAt: time.Now(),
	}
}

func TestCitizen_PreservesOrderAndColors(t *testing.T) {
	stored := []models.Report{
		report("c", models.TagFire, models.StatusBackupTriggered),
		report("b", models.TagHealth, models.StatusAccepted),
		report("a", models.TagGeneral, models.StatusSent),
	}

	out := Citizen(stored)
	if len(out) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(out))
	}

	wantOrder := []string{"c", "b", "a"}
	for i, id := range wantOrder {
		if out[i].ID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, out[i].ID)
		}
	}

	wantColors := []StatusColor{ColorDanger, ColorSuccess, ColorWarning}
	for i, color := range wantColors {
		if out[i].StatusColor != color {
			t.Errorf("report %s: expected color %s, got %s", out[i].ID, color, out[i].StatusColor)
		}
	}
}

func TestCitizen_StatusColorMapping(t *testing.T) {
	tests := []struct {
		status models.ReportStatus
		want   StatusColor
	}{
		{models.StatusSent, ColorWarning},
		{models.StatusAccepted, ColorSuccess},
		{models.StatusHelpArriving, ColorSuccess},
		{models.StatusBackupTriggered, ColorDanger},
		{models.StatusResolved, ColorNeutral},
		{models.ReportStatus("Bogus"), ColorNeutral},
	}

	for _, tt := range tests {
		out := Citizen([]models.Report{report("x", models.TagGeneral, tt.status)})
		if out[0].StatusColor != tt.want {
			t.Errorf("status %q: expected %s, got %s", tt.status, tt.want, out[0].StatusColor)
		}
	}
}

func TestAuthority_FireSeesOnlyFire(t *testing.T) {
	stored := []models.Report{
		report("f1", models.TagFire, models.StatusSent),
		report("h1", models.TagHealth, models.StatusSent),
		report("f2", models.TagFire, models.StatusSent),
		report("c1", models.TagComplaints, models.StatusSent),
	}

	buckets := Authority("Fire", stored)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if buckets[0].Tag != models.TagFire || buckets[0].Count != 2 {
		t.Errorf("expected Fire bucket with 2 reports, got %+v", buckets[0])
	}
	for _, r := range buckets[0].Reports {
		if r.Tag != models.TagFire {
			t.Errorf("unexpected tag %s in Fire bucket", r.Tag)
		}
	}
}

func TestAuthority_HealthSeesHealthAndAnimal(t *testing.T) {
	stored := []models.Report{
		report("h1", models.TagHealth, models.StatusSent),
		report("a1", models.TagAnimal, models.StatusSent),
		report("f1", models.TagFire, models.StatusSent),
	}

	buckets := Authority("Health", stored)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	total := 0
	for _, b := range buckets {
		if b.Tag != models.TagHealth && b.Tag != models.TagAnimal {
			t.Errorf("unexpected bucket %s", b.Tag)
		}
		total += b.Count
	}
	if total != 2 {
		t.Errorf("expected 2 visible reports, got %d", total)
	}
}

func TestAuthority_NagarNigamAndSafetySeeComplaints(t *testing.T) {
	stored := []models.Report{
		report("c1", models.TagComplaints, models.StatusSent),
		report("f1", models.TagFire, models.StatusSent),
	}

	for _, typ := range []string{"Nagar Nigam", "Safety"} {
		buckets := Authority(typ, stored)
		if len(buckets) != 1 || buckets[0].Tag != models.TagComplaints {
			t.Errorf("type %s: expected only Complaints bucket, got %+v", typ, buckets)
		}
	}
}

func TestAuthority_PoliceAndUnknownSeeAll(t *testing.T) {
	stored := []models.Report{
		report("f1", models.TagFire, models.StatusSent),
		report("v1", models.TagViolence, models.StatusSent),
		report("c1", models.TagComplaints, models.StatusSent),
	}

	for _, typ := range []string{"Police", "Forest Department"} {
		buckets := Authority(typ, stored)
		total := 0
		for _, b := range buckets {
			total += b.Count
		}
		if total != 3 {
			t.Errorf("type %s: expected all 3 reports visible, got %d", typ, total)
		}
	}
}

func TestAuthority_AnonymousSubmitter(t *testing.T) {
	named := report("n1", models.TagFire, models.StatusSent)
	named.Submitter = &models.UserProfile{Name: "Asha"}
	anon := report("a1", models.TagFire, models.StatusSent)

	buckets := Authority("Fire", []models.Report{named, anon})
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if buckets[0].Reports[0].SubmitterName != "Asha" {
		t.Errorf("expected submitter name Asha, got %q", buckets[0].Reports[0].SubmitterName)
	}
	if buckets[0].Reports[1].SubmitterName != "Anonymous User" {
		t.Errorf("expected Anonymous User, got %q", buckets[0].Reports[1].SubmitterName)
	}
}
