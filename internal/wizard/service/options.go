package service

import (
	"context"

	catalogservice "korskola/internal/catalog/service"
	"korskola/internal/wizard/core"
	"korskola/pkg/model"
)

// Options lists what the client can choose at the current step. Lists that
// failed to load are empty and explained by a notice. RemainingSupervisorSpots
// is how many more supervisors the chosen session can seat.
type Options struct {
	Step                     core.Step                `json:"step"`
	LessonTypes              []model.LessonType       `json:"lesson_types,omitempty"`
	TeoriLessonTypes         []model.TeoriLessonType  `json:"teori_lesson_types,omitempty"`
	Sessions                 []model.TeoriSession     `json:"sessions,omitempty"`
	Transmissions            []model.TransmissionType `json:"transmissions,omitempty"`
	RemainingSupervisorSpots *int                     `json:"remaining_supervisor_spots,omitempty"`
	Notices                  []catalogservice.Notice  `json:"notices"`
}

func (s *wizardService) Options(ctx context.Context, id string, user *model.ActingUser) (*Options, error) {
	sess, err := s.load(ctx, id, user)
	if err != nil {
		return nil, err
	}

	opts := &Options{Step: sess.Step, Notices: []catalogservice.Notice{}}
	switch sess.Step {
	case core.StepLessonSelection:
		lessons, notice := s.catalog.LoadLessonTypes(ctx)
		opts.LessonTypes = lessons
		opts.addNotice(notice)

		teori, notice := s.catalog.LoadTeoriLessonTypes(ctx)
		opts.TeoriLessonTypes = teori
		opts.addNotice(notice)

	case core.StepTeoriSessions:
		t, ok := sess.Draft.Teori()
		if !ok {
			break
		}
		teori, notice := s.catalog.LoadTeoriLessonTypes(ctx)
		opts.addNotice(notice)
		opts.Sessions = []model.TeoriSession{}
		for _, tt := range teori {
			if tt.ID == t.LessonType.ID {
				opts.Sessions = tt.Sessions
				break
			}
		}

	case core.StepGearSelection:
		opts.Transmissions = []model.TransmissionType{model.TransmissionManual, model.TransmissionAutomatic}

	case core.StepSupervisorManagement:
		remaining := remainingSupervisorSpots(sess.Draft)
		opts.RemainingSupervisorSpots = &remaining
	}
	return opts, nil
}

func (o *Options) addNotice(n *catalogservice.Notice) {
	if n != nil {
		o.Notices = append(o.Notices, *n)
	}
}

// remainingSupervisorSpots counts the seats left after the participant and
// the supervisors already added.
func remainingSupervisorSpots(d model.Draft) int {
	t, ok := d.Teori()
	if !ok || t.Session == nil {
		return 0
	}
	return max(0, t.Session.MaxParticipants-t.Session.CurrentParticipants-1-len(d.Supervisors))
}
