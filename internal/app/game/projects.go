package game

import (
	"context"
	"fmt"

	"github.com/questforge/questforge/internal/app/project"
	"github.com/questforge/questforge/internal/domain"
)

// MilestoneResult is a project after a milestone completion.
type MilestoneResult struct {
	Project domain.Project `json:"project"`
	Reward  domain.Reward  `json:"reward"`
}

func (tx *txn) updateProject(id string, fn func(domain.Project) (domain.Project, error)) (domain.Project, error) {
	i := tx.st.ProjectIndex(id)
	if i < 0 {
		return domain.Project{}, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, id)
	}
	p, err := fn(tx.st.Projects[i])
	if err != nil {
		return domain.Project{}, err
	}
	projects := append([]domain.Project(nil), tx.st.Projects...)
	projects[i] = p
	tx.st.Projects = projects
	return p, nil
}

// CreateProject stores a project with its ordered milestones.
func (s *Service) CreateProject(ctx context.Context, in domain.ProjectInput) (domain.Project, error) {
	var out domain.Project
	err := s.mutate(ctx, "create_project", func(tx *txn) error {
		p, err := project.New(in, s.newID(), s.newID, tx.now)
		if err != nil {
			return err
		}
		tx.st.Projects = append(append([]domain.Project(nil), tx.st.Projects...), p)
		out = p
		return nil
	})
	return out, err
}

// CompleteMilestone completes the project's current milestone and pays it.
func (s *Service) CompleteMilestone(ctx context.Context, projectID, milestoneID string) (MilestoneResult, error) {
	var out MilestoneResult
	err := s.mutate(ctx, "complete_milestone", func(tx *txn) error {
		var base domain.Reward
		p, err := tx.updateProject(projectID, func(p domain.Project) (domain.Project, error) {
			next, r, err := project.CompleteMilestone(p, milestoneID, tx.now)
			base = r
			return next, err
		})
		if err != nil {
			return err
		}
		title := p.Milestones[p.CurrentMilestoneIndex-1].Title
		paid, err := tx.grant(SourceMilestone, "Milestone: "+title, base)
		if err != nil {
			return err
		}
		out = MilestoneResult{Project: p, Reward: paid}
		tx.emit(domain.EventMilestoneCompleted, out)
		return nil
	})
	return out, err
}

// SetProjectStatus applies a manual status change.
func (s *Service) SetProjectStatus(ctx context.Context, id string, status domain.ProjectStatus) (domain.Project, error) {
	var out domain.Project
	err := s.mutate(ctx, "set_project_status", func(tx *txn) error {
		p, err := tx.updateProject(id, func(p domain.Project) (domain.Project, error) {
			return project.SetStatus(p, status, tx.now)
		})
		out = p
		return err
	})
	return out, err
}

// Projects returns every project.
func (s *Service) Projects(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	err := s.view(ctx, func(tx *txn) error {
		out = tx.st.Projects
		return nil
	})
	return out, err
}
