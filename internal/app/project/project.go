// Package project tracks multi-milestone goals, their rewards and schedule
// risk.
package project

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

const (
	// CoinRatio converts milestone XP into coins.
	CoinRatio = 0.5
	// AtRiskLevel is the risk at which an open project is flagged.
	AtRiskLevel = 50

	behindMargin = 0.2
	aheadMargin  = 0.1
	riskStepUp   = 20
	riskStepDown = 10
	maxRisk      = 100
)

// New validates input and returns a project in planning. newID supplies
// milestone ids.
func New(in domain.ProjectInput, id string, newID func() string, now time.Time) (domain.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Project{}, fmt.Errorf("%w: project title is required", domain.ErrInvalidInput)
	}
	if in.TargetEndDate != nil && !in.TargetEndDate.After(now) {
		return domain.Project{}, fmt.Errorf("%w: target end date must be in the future", domain.ErrInvalidInput)
	}
	ms := make([]domain.Milestone, 0, len(in.Milestones))
	for i, m := range in.Milestones {
		mt := strings.TrimSpace(m.Title)
		if mt == "" {
			return domain.Project{}, fmt.Errorf("%w: milestone %d title is required", domain.ErrInvalidInput, i+1)
		}
		if m.XPReward < 0 {
			return domain.Project{}, fmt.Errorf("%w: milestone %d xp reward must not be negative", domain.ErrInvalidInput, i+1)
		}
		ms = append(ms, domain.Milestone{
			ID:          newID(),
			Title:       mt,
			Description: m.Description,
			XPReward:    m.XPReward,
			TargetDate:  m.TargetDate,
		})
	}
	return domain.Project{
		ID:            id,
		Title:         title,
		Description:   in.Description,
		Status:        domain.ProjectPlanning,
		Milestones:    ms,
		RiskFactors:   []string{},
		StartDate:     now,
		TargetEndDate: in.TargetEndDate,
		CreatedAt:     now,
	}, nil
}

// CompleteMilestone completes the current milestone and returns its reward.
// Milestones complete strictly in order.
func CompleteMilestone(p domain.Project, milestoneID string, now time.Time) (domain.Project, domain.Reward, error) {
	idx := -1
	for i, m := range p.Milestones {
		if m.ID == milestoneID {
			idx = i
			break
		}
	}
	switch {
	case idx < 0:
		return p, domain.Reward{}, fmt.Errorf("%w: %s", domain.ErrMilestoneNotFound, milestoneID)
	case p.Milestones[idx].CompletedAt != nil:
		return p, domain.Reward{}, fmt.Errorf("%w: %s", domain.ErrMilestoneCompleted, milestoneID)
	case idx != p.CurrentMilestoneIndex:
		return p, domain.Reward{}, fmt.Errorf("%w: next is #%d", domain.ErrMilestoneOutOfOrder, p.CurrentMilestoneIndex+1)
	}

	next := p
	next.Milestones = append([]domain.Milestone(nil), p.Milestones...)
	next.RiskFactors = append([]string(nil), p.RiskFactors...)

	done := now
	next.Milestones[idx].CompletedAt = &done
	xp := next.Milestones[idx].XPReward
	r := domain.Reward{XP: xp, Coins: int64(math.Round(float64(xp) * CoinRatio))}

	next.CurrentMilestoneIndex = idx + 1
	next.TotalXPEarned += r.XP
	next.TotalCoinsEarned += r.Coins
	next = reassessRisk(next, now)

	if next.CurrentMilestoneIndex == len(next.Milestones) {
		next.Status = domain.ProjectCompleted
		next.ActualEndDate = &done
	} else {
		next.Status = domain.ProjectActive
	}
	return next, r, nil
}

// reassessRisk compares elapsed schedule against milestone progress.
func reassessRisk(p domain.Project, now time.Time) domain.Project {
	if p.TargetEndDate == nil || len(p.Milestones) == 0 {
		return p
	}
	span := p.TargetEndDate.Sub(p.StartDate)
	if span <= 0 {
		return p
	}
	timeProgress := float64(now.Sub(p.StartDate)) / float64(span)
	msProgress := float64(p.CurrentMilestoneIndex) / float64(len(p.Milestones))

	switch {
	case timeProgress > msProgress+behindMargin:
		p.RiskLevel = min(maxRisk, p.RiskLevel+riskStepUp)
		if !hasFactor(p.RiskFactors, domain.RiskBehindSchedule) {
			p.RiskFactors = append(p.RiskFactors, domain.RiskBehindSchedule)
		}
	case timeProgress < msProgress-aheadMargin:
		p.RiskLevel = max(0, p.RiskLevel-riskStepDown)
		kept := p.RiskFactors[:0]
		for _, f := range p.RiskFactors {
			if f != domain.RiskBehindSchedule {
				kept = append(kept, f)
			}
		}
		p.RiskFactors = kept
	}
	return p
}

func hasFactor(fs []string, f string) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}

// SetStatus changes the status manually. Completed and abandoned stamp the
// end date; other statuses clear it. A project only completes once every
// milestone is done.
func SetStatus(p domain.Project, s domain.ProjectStatus, now time.Time) (domain.Project, error) {
	if !s.IsValid() {
		return p, fmt.Errorf("%w: project status %q", domain.ErrInvalidInput, s)
	}
	if s == domain.ProjectCompleted && p.CurrentMilestoneIndex < len(p.Milestones) {
		return p, fmt.Errorf("%w: %d of %d remaining", domain.ErrMilestonesOpen,
			len(p.Milestones)-p.CurrentMilestoneIndex, len(p.Milestones))
	}
	p.Status = s
	if s == domain.ProjectCompleted || s == domain.ProjectAbandoned {
		end := now
		p.ActualEndDate = &end
	} else {
		p.ActualEndDate = nil
	}
	return p, nil
}

// Progress returns the percentage of completed milestones.
func Progress(p domain.Project) int {
	if len(p.Milestones) == 0 {
		return 0
	}
	return int(math.Round(float64(p.CurrentMilestoneIndex) / float64(len(p.Milestones)) * 100))
}

// IsOpen reports whether the project is planning or active.
func IsOpen(p domain.Project) bool {
	return p.Status == domain.ProjectActive || p.Status == domain.ProjectPlanning
}

// AtRisk reports whether an open project has risk of 50 or more.
func AtRisk(p domain.Project) bool {
	return p.RiskLevel >= AtRiskLevel && IsOpen(p)
}
