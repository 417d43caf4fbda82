package domain

import "context"

// SkillJustifications are the items backing a skill claim. A nil slice
// leaves that relationship untouched, an empty one clears it.
type SkillJustifications struct {
	Projects       []string `json:"related_projects"`
	Certifications []string `json:"related_certifications"`
	Trainings      []string `json:"related_trainings"`
}

// JustificationTargets are the kinds a skill may point at.
var JustificationTargets = []ContentKind{KindProject, KindCertification, KindTraining}

func (j *SkillJustifications) For(kind ContentKind) []string {
	switch kind {
	case KindProject:
		return j.Projects
	case KindCertification:
		return j.Certifications
	case KindTraining:
		return j.Trainings
	}
	return nil
}

type JustificationUsecase interface {
	SetJustifications(ctx context.Context, ownerID, skillID string, req *SkillJustifications) error
}
