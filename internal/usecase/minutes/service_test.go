package minutes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/internal/usecase/conversion"
	usecaseErrors "github.com/johnquangdev/mom-generator/internal/usecase/errors"
	"github.com/johnquangdev/mom-generator/internal/usecase/structuring"
	"github.com/johnquangdev/mom-generator/pkg/opcontext"
)

func asAnn() context.Context {
	return opcontext.WithPerformer(context.Background(), opcontext.Performer{ID: "u-1", Name: "Ann Lee"})
}

func apiDelayInput() Input {
	return Input{
		Meta: entities.MeetingMeta{
			ProjectID: "p-1",
			Date:      "2024-05-01",
			StartTime: "10:00",
			EndTime:   "11:00",
			Venue:     "Room 4",
			Attendees: []string{"u-2", "u-1"},
		},
		Discussions: []entities.RawDiscussion{{Topic: "API delay", Notes: "Vendor blocked\nWaiting for spec"}},
	}
}

// generated opens a session and generates minutes for the API delay meeting
func generated(t *testing.T, f *fixture) string {
	t.Helper()
	ctx := asAnn()
	id := f.svc.Open(ctx).SessionID
	if _, err := f.svc.UpdateInput(ctx, id, apiDelayInput()); err != nil {
		t.Fatalf("UpdateInput: %v", err)
	}
	if _, err := f.svc.Generate(ctx, id); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return id
}

func TestAPIDelayEndToEnd(t *testing.T) {
	f := newFixture()
	ctx := asAnn()

	st := f.svc.Open(ctx)
	if st.Record.Meta.PreparedBy != "Ann Lee" || st.SaveEnabled {
		t.Fatalf("unexpected initial state %+v", st)
	}
	id := st.SessionID

	st, err := f.svc.UpdateInput(ctx, id, apiDelayInput())
	if err != nil {
		t.Fatalf("UpdateInput: %v", err)
	}
	if st.Record.Meta.ProjectName != "Apollo Web" || strings.Join(st.Record.Meta.AttendeeNames, ",") != "Bob Stone,Ann Lee" {
		t.Fatalf("names not resolved: %+v", st.Record.Meta)
	}

	st, err = f.svc.Generate(ctx, id)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if st.Source != structuring.SourceRules || st.Notice != structuring.NoticeOffline {
		t.Errorf("expected offline generation, got %q %q", st.Source, st.Notice)
	}
	items := st.Record.StructuredActionItems
	if len(items) != 1 || items[0].Task != "Complete API/Integration work for API delay" || items[0].ResponsiblePerson != entities.UnassignedPerson {
		t.Fatalf("unexpected inferred items %+v", items)
	}
	if !st.SaveEnabled || st.Record.State != entities.StateGenerated {
		t.Fatalf("generated minutes should be saveable: %+v", st)
	}

	res, err := f.svc.Save(ctx, id)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec := res.State.Record
	if !res.Created || rec.IdentifierOrEmpty() != "MOM_001" || rec.Version != 1 || rec.State != entities.StateSaved {
		t.Fatalf("unexpected first save %+v", rec)
	}
	if res.State.SaveEnabled {
		t.Fatal("save should be disabled right after saving")
	}
	wantPath := "documents/moms/MOM_001/MOM_001_Apollo-Web_2024-05-01.pdf"
	if rec.StoragePath != wantPath || f.blobs.uploads[wantPath] == nil {
		t.Fatalf("unexpected storage path %q", rec.StoragePath)
	}

	doc, err := f.store.Get(context.Background(), "MOM_001")
	if err != nil {
		t.Fatalf("document not stored: %v", err)
	}
	if doc.Name != "MOM_001 – Apollo Web" || doc.Folder != entities.MomFolder || doc.CreatedByName != "Ann Lee" {
		t.Errorf("unexpected document %+v", doc)
	}
	if len(f.audit.entries) != 1 || f.audit.entries[0].Action != entities.AuditActionCreate || f.audit.entries[0].Changes[0] != "Created MoM" {
		t.Fatalf("unexpected audit %+v", f.audit.entries)
	}

	markupText := "<b>Summary:</b><br/>• Vendor confirmed new date"
	st, err = f.svc.UpdateDiscussion(id, 0, DiscussionPatch{Markup: &markupText})
	if err != nil {
		t.Fatalf("UpdateDiscussion: %v", err)
	}
	if !st.SaveEnabled || st.Record.State != entities.StateGenerated {
		t.Fatalf("edit should re-enable save: %+v", st)
	}

	res, err = f.svc.Save(ctx, id)
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if res.Created || res.State.Record.IdentifierOrEmpty() != "MOM_001" || f.store.updates != 1 {
		t.Fatalf("second save should update MOM_001: %+v", res)
	}
	last := f.audit.entries[len(f.audit.entries)-1]
	if last.Action != entities.AuditActionUpdate || strings.Join(last.Changes, "|") != "Updated discussions" {
		t.Fatalf("unexpected update audit %+v", last)
	}
}

func TestSaveEnablementFollowsFingerprint(t *testing.T) {
	f := newFixture()
	id := generated(t, f)

	if _, err := f.svc.Save(asAnn(), id); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := f.svc.Save(asAnn(), id); !errors.Is(err, usecaseErrors.ErrNothingToSave) {
		t.Fatalf("expected nothing to save, got %v", err)
	}

	task := "Complete API/Integration work for API delay"
	st, err := f.svc.UpdateActionItem(id, 0, ActionItemPatch{Task: &task})
	if err != nil {
		t.Fatal(err)
	}
	if st.SaveEnabled {
		t.Fatal("writing the same value back must not enable save")
	}

	task = "Escalate vendor"
	st, _ = f.svc.UpdateActionItem(id, 0, ActionItemPatch{Task: &task})
	if !st.SaveEnabled {
		t.Fatal("a real change must enable save")
	}
}

func TestFailedWriteKeepsSaveEnabled(t *testing.T) {
	f := newFixture()
	id := generated(t, f)
	f.store.createErr = errors.New("database is down")

	_, err := f.svc.Save(asAnn(), id)
	if !errors.Is(err, usecaseErrors.ErrSaveFailed) {
		t.Fatalf("expected save failure, got %v", err)
	}

	st, _ := f.svc.Get(id)
	if !st.SaveEnabled || st.Record.State != entities.StateGenerated || st.Record.Identifier != nil {
		t.Fatalf("failed save must leave the record unsaved: %+v", st)
	}
	if len(f.audit.entries) != 0 {
		t.Fatalf("no audit entry expected")
	}

	f.store.createErr = nil
	res, err := f.svc.Save(asAnn(), id)
	if err != nil || res.State.Record.IdentifierOrEmpty() != "MOM_001" {
		t.Fatalf("retry after recovery failed: %v %+v", err, res)
	}
}

func TestSaveReallocatesOnConflict(t *testing.T) {
	f := newFixture()
	id := generated(t, f)

	// Another writer commits MOM_001 between allocation and insert.
	f.store.beforeCreate = func(s *memoryStore, doc *entities.MomDocument) {
		_ = s.insertLocked(&entities.MomDocument{ID: doc.ID, ProjectID: doc.ProjectID, MomVersion: doc.MomVersion})
	}

	res, err := f.svc.Save(asAnn(), id)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := res.State.Record.IdentifierOrEmpty(); got != "MOM_002" || res.State.Record.Version != 2 {
		t.Fatalf("expected re-allocation to MOM_002 v2, got %s v%d", got, res.State.Record.Version)
	}
	if f.store.creates != 2 {
		t.Fatalf("expected two create attempts, got %d", f.store.creates)
	}
}

func TestUploadRetriesTransientErrors(t *testing.T) {
	f := newFixture()
	id := generated(t, f)
	f.blobs.failures = []error{errors.New("read: connection reset by peer")}

	if _, err := f.svc.Save(asAnn(), id); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if f.blobs.calls != 2 {
		t.Fatalf("expected a retried upload, calls=%d", f.blobs.calls)
	}

	f2 := newFixture()
	id2 := generated(t, f2)
	f2.blobs.failures = []error{errors.New("access denied")}
	if _, err := f2.svc.Save(asAnn(), id2); !errors.Is(err, usecaseErrors.ErrSaveFailed) {
		t.Fatalf("permanent upload error should fail the save, got %v", err)
	}
	if f2.blobs.calls != 1 || f2.store.creates != 0 {
		t.Fatalf("permanent error must not be retried: uploads=%d creates=%d", f2.blobs.calls, f2.store.creates)
	}
}

func TestGenerateValidationAndRateLimit(t *testing.T) {
	f := newFixture()
	ctx := asAnn()
	id := f.svc.Open(ctx).SessionID

	in := apiDelayInput()
	in.Discussions[0].Notes = "   "
	if _, err := f.svc.UpdateInput(ctx, id, in); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.Generate(ctx, id)
	var verr *entities.ValidationError
	if !errors.As(err, &verr) || verr.Fields[0] != "input_discussions[0].notes" {
		t.Fatalf("expected notes validation error, got %v", err)
	}

	if _, err := f.svc.UpdateInput(ctx, id, apiDelayInput()); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Generate(ctx, id); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if _, err := f.svc.Generate(ctx, id); !errors.Is(err, usecaseErrors.ErrRateLimited) {
		t.Fatalf("expected rate limit, got %v", err)
	}
}

func TestInputsFrozenAfterGeneration(t *testing.T) {
	f := newFixture()
	id := generated(t, f)

	if _, err := f.svc.UpdateInput(asAnn(), id, apiDelayInput()); !errors.Is(err, usecaseErrors.ErrNotEditable) {
		t.Fatalf("expected not editable, got %v", err)
	}
	st, err := f.svc.EditInputs(id)
	if err != nil || st.Record.State != entities.StateEditing || st.SaveEnabled {
		t.Fatalf("EditInputs: %v %+v", err, st)
	}
	if _, err := f.svc.UpdateInput(asAnn(), id, apiDelayInput()); err != nil {
		t.Fatalf("inputs should be editable again: %v", err)
	}
}

func TestReopenKeepsIdentifier(t *testing.T) {
	f := newFixture()
	id := generated(t, f)
	if _, err := f.svc.Save(asAnn(), id); err != nil {
		t.Fatal(err)
	}

	st, err := f.svc.Reopen(context.Background(), "MOM_001")
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	if st.SessionID == id || st.Record.IdentifierOrEmpty() != "MOM_001" || st.SaveEnabled {
		t.Fatalf("unexpected reopened state %+v", st)
	}

	st, err = f.svc.AddComment(asAnn(), st.SessionID, "Vendor call booked")
	if err != nil || !st.SaveEnabled {
		t.Fatalf("comment should enable save: %v", err)
	}
	res, err := f.svc.Save(asAnn(), st.SessionID)
	if err != nil || res.Created || res.State.Record.Version != 1 {
		t.Fatalf("reopened save should update in place: %v %+v", err, res)
	}
	last := f.audit.entries[len(f.audit.entries)-1]
	if strings.Join(last.Changes, "|") != "Updated comments" {
		t.Fatalf("unexpected changes %v", last.Changes)
	}

	if _, err := f.svc.Reopen(context.Background(), "MOM_404"); !errors.Is(err, entities.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestConversionFlow(t *testing.T) {
	f := newFixture()
	ctx := asAnn()
	id := f.svc.Open(ctx).SessionID
	in := apiDelayInput()
	in.ActionItems = []entities.RawActionItem{
		{Task: "call vendor.", ResponsiblePerson: "bob stone", Deadline: "2024-05-03"},
		{Task: "update plan", ResponsiblePerson: "Ann Lee"},
	}
	if _, err := f.svc.UpdateInput(ctx, id, in); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Generate(ctx, id); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.BeginConversion(ctx, id); !errors.Is(err, usecaseErrors.ErrNotSaved) {
		t.Fatalf("conversion needs saved minutes, got %v", err)
	}
	if _, err := f.svc.Save(ctx, id); err != nil {
		t.Fatal(err)
	}

	cs, err := f.svc.BeginConversion(ctx, id)
	if err != nil {
		t.Fatalf("BeginConversion: %v", err)
	}
	if cs.Overrides[0].AssigneeID != "u-2" || cs.Overrides[1].AssigneeID != "u-1" {
		t.Fatalf("assignees not guessed: %+v", cs.Overrides)
	}

	due := "2024-05-09"
	if _, err := f.svc.SetOverride(id, 1, conversion.OverridePatch{DueDate: &due}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.svc.CommitConversion(ctx, id, nil); !errors.Is(err, usecaseErrors.ErrEmptySelection) {
		t.Fatalf("expected empty selection, got %v", err)
	}

	f.tasks.failFor = map[string]bool{"Call vendor": true}
	res, st, err := f.svc.CommitConversion(ctx, id, []int{0, 1})
	if err != nil {
		t.Fatalf("CommitConversion: %v", err)
	}
	if res.Created != 1 || res.Failed != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if f.tasks.created[0].MomID != "MOM_001" || f.tasks.created[0].CreatedBy != "u-1" {
		t.Fatalf("task origin missing %+v", f.tasks.created[0])
	}
	items := st.Record.StructuredActionItems
	if items[1].Deadline != "2024-05-09" || items[0].Deadline != "2024-05-03" {
		t.Fatalf("write back wrong: %+v", items)
	}
	if !st.SaveEnabled {
		t.Fatal("written back assignees should enable save")
	}

	// The commit ends the conversion; the same selection cannot create the tasks twice.
	if _, _, err := f.svc.CommitConversion(ctx, id, []int{1}); !errors.Is(err, usecaseErrors.ErrNoConversion) {
		t.Fatalf("expected no conversion after commit, got %v", err)
	}
	if len(f.tasks.created) != 1 {
		t.Fatalf("tasks created again: %d", len(f.tasks.created))
	}

	// A new conversion starts from the written back items.
	f.tasks.failFor = nil
	cs, err = f.svc.BeginConversion(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if cs.Overrides[1].DueDate != "2024-05-09" {
		t.Fatalf("new conversion should start from written back items: %+v", cs.Overrides[1])
	}
	if err := f.svc.CancelConversion(id); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SetOverride(id, 0, conversion.OverridePatch{}); !errors.Is(err, usecaseErrors.ErrNoConversion) {
		t.Fatalf("expected no conversion, got %v", err)
	}
}

func TestCommitWritesBackWhenCancelledMidway(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(asAnn())
	defer cancel()
	id := f.svc.Open(ctx).SessionID
	in := apiDelayInput()
	in.ActionItems = []entities.RawActionItem{
		{Task: "call vendor", ResponsiblePerson: "TBD"},
		{Task: "update plan", ResponsiblePerson: "TBD"},
	}
	if _, err := f.svc.UpdateInput(ctx, id, in); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Generate(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Save(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.BeginConversion(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ApplyBatch(id, []int{0, 1}, conversion.OverridePatch{AssigneeID: strPtr("u-2")}); err != nil {
		t.Fatal(err)
	}

	f.tasks.afterCreate = cancel
	res, st, err := f.svc.CommitConversion(ctx, id, []int{0, 1})
	if err != nil {
		t.Fatalf("CommitConversion: %v", err)
	}
	if res.Created != 1 || res.Failed != 1 || res.Failures[0].Index != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	items := st.Record.StructuredActionItems
	if items[0].ResponsiblePerson != "Bob Stone" || items[1].ResponsiblePerson != entities.UnassignedPerson {
		t.Fatalf("only the created task should be written back: %+v", items)
	}
	if !st.SaveEnabled {
		t.Fatal("write back should enable save")
	}
}

func TestShareAndExport(t *testing.T) {
	f := newFixture()
	id := generated(t, f)

	text, err := f.svc.Share(id)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Minutes of Meeting – Apollo Web", "Date/Time: 2024-05-01, 10:00 - 11:00", "1. API delay", "Vendor blocked", "(TBD)"} {
		if !strings.Contains(text, want) {
			t.Errorf("share text missing %q:\n%s", want, text)
		}
	}

	data, ctype, err := f.svc.Export(id)
	if err != nil || ctype != "application/pdf" || !strings.HasPrefix(string(data), "Minutes of Meeting") {
		t.Fatalf("Export: %v %q %q", err, ctype, data)
	}

	view, err := f.svc.View(id)
	if err != nil || len(view.Discussions) != 1 {
		t.Fatalf("View: %v %+v", err, view)
	}

	if _, err := f.svc.Share("missing"); !errors.Is(err, usecaseErrors.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}

func TestExportPath(t *testing.T) {
	path, name := ExportPath("MOM_007", "Apollo / Web #2", "2024-05-01")
	if path != "documents/moms/MOM_007/MOM_007_Apollo---Web--2_2024-05-01.pdf" || name != "MOM_007_Apollo---Web--2_2024-05-01.pdf" {
		t.Fatalf("got %q %q", path, name)
	}
}

func TestInputChangeDuringGenerationDiscardsResult(t *testing.T) {
	f := newFixture()
	backend := newBlockingBackend()
	f.useBackend(backend)
	ctx := asAnn()

	id := f.svc.Open(ctx).SessionID
	if _, err := f.svc.UpdateInput(ctx, id, apiDelayInput()); err != nil {
		t.Fatal(err)
	}

	type generateResult struct {
		st  State
		err error
	}
	done := make(chan generateResult, 1)
	go func() {
		st, err := f.svc.Generate(ctx, id)
		done <- generateResult{st, err}
	}()

	req := <-backend.started
	if strings.Join(req.AttendeeNames, ",") != "Bob Stone,Ann Lee" || req.ProjectName != "Apollo Web" {
		t.Errorf("backend request misses meeting context: %+v", req)
	}

	in := apiDelayInput()
	in.Discussions[0].Topic = "Release plan"
	if _, err := f.svc.UpdateInput(ctx, id, in); err != nil {
		t.Fatalf("UpdateInput during generation: %v", err)
	}
	close(backend.released)

	res := <-done
	if res.err != nil {
		t.Fatalf("Generate: %v", res.err)
	}
	r := res.st.Record
	if r.State != entities.StateEditing || len(r.StructuredDiscussions) != 0 {
		t.Fatalf("stale result applied: state=%s structured=%+v", r.State, r.StructuredDiscussions)
	}
	if r.RawDiscussions[0].Topic != "Release plan" {
		t.Fatalf("new input lost: %+v", r.RawDiscussions)
	}
}
