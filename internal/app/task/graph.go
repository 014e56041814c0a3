package task

import (
	"fmt"

	"github.com/questforge/questforge/internal/domain"
)

// ─── Dependencies ───────────────────────────────────────────────────────────
// The owning task records blocked-by; the task it waits on records the
// mirror blocks link. Only blocked-by edges gate completion.

// Find returns the index of id in tasks.
func Find(tasks []domain.Task, id string) (int, error) {
	for i := range tasks {
		if tasks[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
}

// AddDependency makes id wait on dependsOn. Duplicates are ignored; self
// links and cycles are rejected. The task is blocked unless dependsOn is
// already satisfied.
func AddDependency(tasks []domain.Task, id, dependsOn string) ([]domain.Task, error) {
	if id == dependsOn {
		return tasks, domain.ErrSelfDependency
	}
	i, err := Find(tasks, id)
	if err != nil {
		return tasks, err
	}
	j, err := Find(tasks, dependsOn)
	if err != nil {
		return tasks, err
	}
	for _, d := range tasks[i].BlockedBy() {
		if d == dependsOn {
			return tasks, nil
		}
	}
	if WouldCycle(tasks, id, dependsOn) {
		return tasks, fmt.Errorf("%w: %s already depends on %s", domain.ErrDependencyCycle, dependsOn, id)
	}

	out := append([]domain.Task(nil), tasks...)
	owner, target := out[i], out[j]
	owner.Dependencies = append(append([]domain.Dependency(nil), owner.Dependencies...),
		domain.Dependency{TaskID: dependsOn, Relation: domain.RelationBlockedBy})
	target.Dependencies = append(append([]domain.Dependency(nil), target.Dependencies...),
		domain.Dependency{TaskID: id, Relation: domain.RelationBlocks})
	if !satisfied(target) && !owner.IsTerminal() {
		owner.Status = domain.TaskBlocked
	}
	out[i], out[j] = owner, target
	return out, nil
}

// WouldCycle reports whether adding "from waits on to" closes a loop, i.e.
// whether to already reaches from through blocked-by edges.
func WouldCycle(tasks []domain.Task, from, to string) bool {
	edges := make(map[string][]string, len(tasks))
	for i := range tasks {
		edges[tasks[i].ID] = tasks[i].BlockedBy()
	}
	seen := map[string]bool{}
	stack := []string{to}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == from {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, edges[n]...)
	}
	return false
}

// satisfied reports whether a dependency no longer gates its dependents.
func satisfied(t domain.Task) bool {
	if t.Status == domain.TaskCompleted {
		return true
	}
	return t.IsRepeating() && !t.LastCompletedDate.IsZero()
}

// Waiting returns the blocked-by ids of t that are still open.
func Waiting(tasks []domain.Task, t domain.Task) []string {
	var open []string
	for _, dep := range t.BlockedBy() {
		j, err := Find(tasks, dep)
		if err != nil {
			continue
		}
		if !satisfied(tasks[j]) {
			open = append(open, dep)
		}
	}
	return open
}

// RefreshBlocking moves every active or postponed task that waits on an
// open dependency back to blocked, returning the ids it blocked. It is the
// counterpart of ResolveDependencies for dependencies that reopen.
func RefreshBlocking(tasks []domain.Task) ([]domain.Task, []string) {
	var out []domain.Task
	var blocked []string
	for i := range tasks {
		if s := tasks[i].Status; s != domain.TaskActive && s != domain.TaskPostponed {
			continue
		}
		if len(Waiting(tasks, tasks[i])) == 0 {
			continue
		}
		if out == nil {
			out = append([]domain.Task(nil), tasks...)
		}
		out[i].Status = domain.TaskBlocked
		blocked = append(blocked, tasks[i].ID)
	}
	if out == nil {
		return tasks, nil
	}
	return out, blocked
}

// Relink runs RefreshBlocking then ResolveDependencies so every open task's
// status agrees with its dependencies.
func Relink(tasks []domain.Task) (out []domain.Task, blocked, unblocked []string) {
	out, blocked = RefreshBlocking(tasks)
	out, unblocked = ResolveDependencies(out)
	return out, blocked, unblocked
}

// ResolveDependencies unblocks every blocked task whose dependencies are
// completed or gone, returning the ids it unblocked.
func ResolveDependencies(tasks []domain.Task) ([]domain.Task, []string) {
	byID := make(map[string]int, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = i
	}
	var out []domain.Task
	var unblocked []string
	for i := range tasks {
		if tasks[i].Status != domain.TaskBlocked {
			continue
		}
		ready := true
		for _, dep := range tasks[i].BlockedBy() {
			if j, ok := byID[dep]; ok && !satisfied(tasks[j]) {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}
		if out == nil {
			out = append([]domain.Task(nil), tasks...)
		}
		out[i].Status = domain.TaskActive
		unblocked = append(unblocked, tasks[i].ID)
	}
	if out == nil {
		return tasks, nil
	}
	return out, unblocked
}

// Remove deletes id and strips links to it from other tasks. It returns the
// removed task and its index so it can be restored in place.
func Remove(tasks []domain.Task, id string) ([]domain.Task, domain.Task, int, error) {
	i, err := Find(tasks, id)
	if err != nil {
		return tasks, domain.Task{}, -1, err
	}
	removed := tasks[i]
	out := make([]domain.Task, 0, len(tasks)-1)
	for k := range tasks {
		if k == i {
			continue
		}
		t := tasks[k]
		if hasLink(t, id) {
			deps := make([]domain.Dependency, 0, len(t.Dependencies))
			for _, d := range t.Dependencies {
				if d.TaskID != id {
					deps = append(deps, d)
				}
			}
			t.Dependencies = deps
		}
		out = append(out, t)
	}
	return out, removed, i, nil
}

// Restore reinserts a removed task at pos and relinks the mirror edges.
func Restore(tasks []domain.Task, t domain.Task, pos int) []domain.Task {
	if pos < 0 || pos > len(tasks) {
		pos = len(tasks)
	}
	out := make([]domain.Task, 0, len(tasks)+1)
	out = append(out, tasks[:pos]...)
	out = append(out, t)
	out = append(out, tasks[pos:]...)

	for _, d := range t.Dependencies {
		k, err := Find(out, d.TaskID)
		if err != nil || hasLink(out[k], t.ID) {
			continue
		}
		mirror := domain.RelationBlocks
		if d.Relation == domain.RelationBlocks {
			mirror = domain.RelationBlockedBy
		}
		other := out[k]
		other.Dependencies = append(append([]domain.Dependency(nil), other.Dependencies...),
			domain.Dependency{TaskID: t.ID, Relation: mirror})
		if mirror == domain.RelationBlockedBy && !satisfied(t) && !other.IsTerminal() {
			other.Status = domain.TaskBlocked
		}
		out[k] = other
	}
	return out
}

func hasLink(t domain.Task, id string) bool {
	for _, d := range t.Dependencies {
		if d.TaskID == id {
			return true
		}
	}
	return false
}
