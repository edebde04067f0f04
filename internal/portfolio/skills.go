package portfolio

import (
	"context"
	"errors"
)

// SkillInput carries skill fields. Nil pointers are left unchanged on update.
type SkillInput struct {
	Name       string
	Level      *int
	CategoryID string
}

// ListSkills returns skills newest first with categories populated.
func (s *Service) ListSkills(ctx context.Context) ([]Skill, error) {
	skills, err := s.skills.List(ctx, true)
	if err != nil {
		return nil, err
	}
	idx, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}
	for i := range skills {
		if skills[i].CategoryID != "" {
			skills[i].Category = idx[skills[i].CategoryID]
		}
	}
	return skills, nil
}

func (s *Service) GetSkill(ctx context.Context, id string) (*Skill, error) {
	sk, err := s.skills.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("skill", id)
		}
		return nil, err
	}
	s.populateSkill(ctx, sk)
	return sk, nil
}

func (s *Service) populateSkill(ctx context.Context, sk *Skill) {
	if sk.CategoryID == "" {
		return
	}
	if c, err := s.categories.Get(ctx, sk.CategoryID); err == nil {
		sk.Category = c
	}
}

func (s *Service) CreateSkill(ctx context.Context, in SkillInput) (*Skill, error) {
	name := trimmed(in.Name)
	if name == "" {
		return nil, invalid("Skill name is required")
	}
	if _, err := s.skills.FindBy(ctx, "name", name); err == nil {
		return nil, &ValidationError{Msg: "Skill already exists", Err: ErrDuplicate}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	sk := &Skill{ID: newID(), Name: name}
	if in.Level != nil {
		sk.Level = clampLevel(*in.Level)
	}
	if cid := trimmed(in.CategoryID); cid != "" {
		c, err := s.requireCategory(ctx, cid)
		if err != nil {
			return nil, err
		}
		sk.CategoryID = c.ID
	}
	sk.CreatedAt = s.now()
	sk.UpdatedAt = sk.CreatedAt

	if err := s.skills.Insert(ctx, sk.ID, sk); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, &ValidationError{Msg: "Skill already exists", Err: err}
		}
		return nil, err
	}
	s.populateSkill(ctx, sk)
	return sk, nil
}

func (s *Service) UpdateSkill(ctx context.Context, id string, in SkillInput) (*Skill, error) {
	sk, err := s.skills.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("skill", id)
		}
		return nil, err
	}
	if name := trimmed(in.Name); name != "" {
		sk.Name = name
	}
	if in.Level != nil {
		sk.Level = clampLevel(*in.Level)
	}
	if cid := trimmed(in.CategoryID); cid != "" {
		if _, err := s.requireCategory(ctx, cid); err != nil {
			return nil, err
		}
		sk.CategoryID = cid
	}
	sk.UpdatedAt = s.now()
	if err := s.skills.Replace(ctx, id, sk); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, &ValidationError{Msg: "Skill already exists", Err: err}
		}
		return nil, err
	}
	s.populateSkill(ctx, sk)
	return sk, nil
}

// AdjustSkill adds delta to the level, clamped to [0,100].
func (s *Service) AdjustSkill(ctx context.Context, id string, delta int) (*Skill, error) {
	sk, err := s.skills.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("skill", id)
		}
		return nil, err
	}
	// both operands stay within ±100 so the sum cannot overflow
	sk.Level = clampLevel(clampLevel(sk.Level) + max(-100, min(delta, 100)))
	sk.UpdatedAt = s.now()
	if err := s.skills.Replace(ctx, id, sk); err != nil {
		return nil, err
	}
	s.populateSkill(ctx, sk)
	return sk, nil
}

func (s *Service) DeleteSkill(ctx context.Context, id string) error {
	if err := s.skills.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound("skill", id)
		}
		return err
	}
	return nil
}
