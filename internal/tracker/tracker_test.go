package tracker

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/nibzard/task-tracker/internal/store"
	"github.com/nibzard/task-tracker/internal/task"
)

// fakeClock returns a clock that advances one second per call.
func fakeClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newTestService(t *testing.T, opts ...Option) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore(nil)
	opts = append([]Option{WithClock(fakeClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)))}, opts...)
	return New(st, opts...), st
}

func ids(seq func(func(task.Task) bool)) []int {
	var out []int
	for t := range seq {
		out = append(out, t.ID)
	}
	return out
}

func mustSnapshot(t *testing.T, s *Service) task.List {
	t.Helper()
	list, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	return list
}

func TestAdd(t *testing.T) {
	s, _ := newTestService(t)

	for n := 0; n < 3; n++ {
		id, err := s.Add("task")
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if id != n+1 {
			t.Errorf("Add on %d-task list: got id %d, want %d", n, id, n+1)
		}
	}

	list := mustSnapshot(t, s)
	last := list[len(list)-1]
	if last.ID != 3 {
		t.Errorf("new task should be last, got %+v", list)
	}
	if last.Status != task.StatusTodo {
		t.Errorf("Status: got %v, want todo", last.Status)
	}
	if !last.CreatedAt.Equal(last.UpdatedAt.Time) {
		t.Errorf("CreatedAt %v != UpdatedAt %v", last.CreatedAt, last.UpdatedAt)
	}
}

func TestAddRejectsEmptyDescription(t *testing.T) {
	s, st := newTestService(t)

	for _, desc := range []string{"", "   ", "\t\n"} {
		_, err := s.Add(desc)
		if !errors.Is(err, task.ErrValidation) {
			t.Errorf("Add(%q): expected ErrValidation, got %v", desc, err)
		}
	}
	if st.Saves != 0 {
		t.Errorf("invalid add should not touch the store, got %d saves", st.Saves)
	}
}

func TestUpdate(t *testing.T) {
	s, st := newTestService(t)
	if _, err := s.Add("buy milk"); err != nil {
		t.Fatal(err)
	}
	before := mustSnapshot(t, s)[0]

	if err := s.Update(1, "buy oat milk"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	after := mustSnapshot(t, s)[0]

	if after.Description != "buy oat milk" {
		t.Errorf("Description: got %q", after.Description)
	}
	if after.UpdatedAt.Before(before.UpdatedAt.Time) || after.UpdatedAt.Equal(before.UpdatedAt.Time) {
		t.Errorf("UpdatedAt should advance: before %v, after %v", before.UpdatedAt, after.UpdatedAt)
	}
	if after.ID != before.ID || after.Status != before.Status || !after.CreatedAt.Equal(before.CreatedAt.Time) {
		t.Errorf("Update changed more than description: before %+v, after %+v", before, after)
	}

	saves := st.Saves
	doc := string(st.Bytes())
	err := s.Update(42, "nope")
	var nf *task.NotFoundError
	if !errors.As(err, &nf) || nf.ID != 42 {
		t.Errorf("Update(42): expected NotFoundError{42}, got %v", err)
	}
	if st.Saves != saves || string(st.Bytes()) != doc {
		t.Error("Update on missing id should leave the store unchanged")
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestService(t)
	for _, d := range []string{"a", "b", "c"} {
		if _, err := s.Add(d); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Delete(2); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := ids(mustSnapshot(t, s).Filter()); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("after Delete(2): got %v, want [1 3]", got)
	}

	// Deleting a missing id succeeds and changes nothing.
	if err := s.Delete(2); err != nil {
		t.Errorf("Delete of missing id: got %v, want nil", err)
	}
	if err := s.Delete(99); err != nil {
		t.Errorf("Delete(99): got %v, want nil", err)
	}
	if got := ids(mustSnapshot(t, s).Filter()); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("after missing deletes: got %v, want [1 3]", got)
	}
}

func TestChangeStatus(t *testing.T) {
	s, _ := newTestService(t)
	if _, err := s.Add("buy milk"); err != nil {
		t.Fatal(err)
	}

	// Any transition is allowed, including todo -> done directly.
	transitions := []task.Status{task.StatusDone, task.StatusDone, task.StatusInProgress, task.StatusTodo}
	var lastUpdated task.Timestamp
	for _, st := range transitions {
		if err := s.ChangeStatus(1, st); err != nil {
			t.Fatalf("ChangeStatus(%v) failed: %v", st, err)
		}
		got := mustSnapshot(t, s)[0]
		if got.Status != st {
			t.Errorf("Status: got %v, want %v", got.Status, st)
		}
		if got.UpdatedAt.Before(lastUpdated.Time) {
			t.Errorf("UpdatedAt moved backwards: %v < %v", got.UpdatedAt, lastUpdated)
		}
		lastUpdated = got.UpdatedAt
	}

	if err := s.ChangeStatus(5, task.StatusDone); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("ChangeStatus(5): expected ErrNotFound, got %v", err)
	}
	if err := s.ChangeStatus(1, task.Status(0)); !errors.Is(err, task.ErrValidation) {
		t.Errorf("ChangeStatus with zero status: expected ErrValidation, got %v", err)
	}
}

func TestList(t *testing.T) {
	s, _ := newTestService(t)

	if _, err := s.List(); !errors.Is(err, ErrNoTasks) {
		t.Errorf("List on empty collection: expected ErrNoTasks, got %v", err)
	}

	for _, d := range []string{"a", "b", "c", "d"} {
		if _, err := s.Add(d); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.ChangeStatus(2, task.StatusDone); err != nil {
		t.Fatal(err)
	}
	if err := s.ChangeStatus(4, task.StatusDone); err != nil {
		t.Fatal(err)
	}
	if err := s.ChangeStatus(3, task.StatusInProgress); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		statuses []task.Status
		want     []int
	}{
		{name: "all", want: []int{1, 2, 3, 4}},
		{name: "done", statuses: []task.Status{task.StatusDone}, want: []int{2, 4}},
		{name: "todo", statuses: []task.Status{task.StatusTodo}, want: []int{1}},
		{name: "in-progress or todo", statuses: []task.Status{task.StatusInProgress, task.StatusTodo}, want: []int{1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := s.List(tt.statuses...)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if got := ids(seq); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	for _, id := range []int{2, 4} {
		if err := s.ChangeStatus(id, task.StatusTodo); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.List(task.StatusDone); !errors.Is(err, ErrNoTasks) {
		t.Errorf("List(done) with no matches: expected ErrNoTasks, got %v", err)
	}
	if _, err := s.List(task.Status(7)); !errors.Is(err, task.ErrValidation) {
		t.Errorf("List with invalid status: expected ErrValidation, got %v", err)
	}
}

func TestScenario(t *testing.T) {
	s, _ := newTestService(t)

	id, err := s.Add("buy milk")
	if err != nil || id != 1 {
		t.Fatalf("add buy milk: id %d, err %v", id, err)
	}
	if got := mustSnapshot(t, s)[0].Status; got != task.StatusTodo {
		t.Errorf("buy milk status: got %v, want todo", got)
	}

	id, err = s.Add("walk dog")
	if err != nil || id != 2 {
		t.Fatalf("add walk dog: id %d, err %v", id, err)
	}

	if err := s.ChangeStatus(1, task.StatusDone); err != nil {
		t.Fatal(err)
	}
	seq, err := s.List(task.StatusDone)
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(seq); !slices.Equal(got, []int{1}) {
		t.Errorf("list done: got %v, want [1]", got)
	}

	if err := s.Delete(2); err != nil {
		t.Fatal(err)
	}
	seq, err = s.List()
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(seq); !slices.Equal(got, []int{1}) {
		t.Errorf("list: got %v, want [1]", got)
	}
}

func TestIDStrategies(t *testing.T) {
	run := func(t *testing.T, strategy IDStrategy) []int {
		s, _ := newTestService(t, WithIDStrategy(strategy))
		for _, d := range []string{"a", "b"} {
			if _, err := s.Add(d); err != nil {
				t.Fatal(err)
			}
		}
		if err := s.Delete(1); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Add("c"); err != nil {
			t.Fatal(err)
		}
		return ids(mustSnapshot(t, s).Filter())
	}

	// len+1 reuses id 2 once task 1 is gone.
	if got := run(t, IDCount); !slices.Equal(got, []int{2, 2}) {
		t.Errorf("count strategy: got %v, want [2 2]", got)
	}
	if got := run(t, IDMax); !slices.Equal(got, []int{2, 3}) {
		t.Errorf("max strategy: got %v, want [2 3]", got)
	}
}

func TestParseIDStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    IDStrategy
		wantErr bool
	}{
		{"", IDCount, false},
		{"count", IDCount, false},
		{" MAX ", IDMax, false},
		{"uuid", "", true},
	}
	for _, tt := range tests {
		got, err := ParseIDStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseIDStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseIDStrategy(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	s, st := newTestService(t)
	if _, err := s.Add("a"); err != nil {
		t.Fatal(err)
	}
	st.SaveErr = errors.New("disk full")

	if _, err := s.Add("b"); !errors.Is(err, task.ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
	st.SaveErr = nil
	if got := len(mustSnapshot(t, s)); got != 1 {
		t.Errorf("failed add should not persist, got %d tasks", got)
	}
}

func TestCorruptFileIsParseError(t *testing.T) {
	st := store.NewMemoryStoreFromBytes([]byte(`[{"id": "x"}]`))
	s := New(st)
	if _, err := s.Add("a"); !errors.Is(err, task.ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
	if st.Saves != 0 {
		t.Error("corrupt file must not be overwritten")
	}
}

func TestClockGoingBackwards(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local),
		time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local),
	}
	i := 0
	s := New(store.NewMemoryStore(nil), WithClock(func() time.Time {
		ts := times[i]
		i++
		return ts
	}))
	if _, err := s.Add("a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(1, "b"); err != nil {
		t.Fatal(err)
	}
	got := mustSnapshot(t, s)[0]
	if got.UpdatedAt.Before(got.CreatedAt.Time) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", got.UpdatedAt, got.CreatedAt)
	}
}
