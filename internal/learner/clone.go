package learner

import "github.com/rayyan/tahfiz/internal/ring"

// Clone returns a fully detached deep copy of the record. Callers may
// mutate the copy freely without affecting stored state.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := &Record{
		Profile:     r.Profile,
		Stats:       r.Stats,
		DailyTarget: r.DailyTarget,
		Panel:       r.Panel,
		Activity:    cloneLog(r.Activity),
		Sessions:    cloneLog(r.Sessions),
		Notes:       cloneLog(r.Notes),
		Heatmap:     cloneLog(r.Heatmap),
		Completions: cloneLog(r.Completions),
		Meta:        r.Meta.clone(),
	}
	c.Habits = make([]*HabitQuest, len(r.Habits))
	for i, h := range r.Habits {
		hc := *h
		c.Habits[i] = &hc
	}
	c.FocusAreas = make([]*FocusArea, len(r.FocusAreas))
	for i, fa := range r.FocusAreas {
		fc := *fa
		c.FocusAreas[i] = &fc
	}
	c.Tasks = make([]*QuestTask, len(r.Tasks))
	for i, t := range r.Tasks {
		tc := *t
		if t.CompletedAt != nil {
			at := *t.CompletedAt
			tc.CompletedAt = &at
		}
		c.Tasks[i] = &tc
	}
	return c
}

func cloneLog[T any](l *ring.Log[T]) *ring.Log[T] {
	if l == nil {
		return nil
	}
	return l.Clone()
}

func (m Meta) clone() Meta {
	c := m
	c.CreditedVerses = make(map[string]bool, len(m.CreditedVerses))
	for k, v := range m.CreditedVerses {
		c.CreditedVerses[k] = v
	}
	c.SurahLog = make(map[string]bool, len(m.SurahLog))
	for k, v := range m.SurahLog {
		c.SurahLog[k] = v
	}
	return c
}

// Clone returns a detached copy of the class.
func (c *Class) Clone() *Class {
	if c == nil {
		return nil
	}
	cc := *c
	cc.StudentIDs = append([]string(nil), c.StudentIDs...)
	return &cc
}

// Clone returns a detached copy of the plan.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	pc := *p
	pc.VerseKeys = append([]string(nil), p.VerseKeys...)
	pc.ClassIDs = append([]string(nil), p.ClassIDs...)
	if p.Personal != nil {
		ps := *p.Personal
		ps.CheckInDays = append([]string(nil), p.Personal.CheckInDays...)
		pc.Personal = &ps
	}
	return &pc
}

// Clone returns a detached copy of the progress record.
func (p *PlanProgress) Clone() *PlanProgress {
	if p == nil {
		return nil
	}
	pc := *p
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		pc.CompletedAt = &at
	}
	pc.History = append([]VerseLog(nil), p.History...)
	return &pc
}

// Clone returns a detached copy of the review task.
func (t *MemorizationTask) Clone() *MemorizationTask {
	if t == nil {
		return nil
	}
	tc := *t
	tc.VerseKeys = append([]string(nil), t.VerseKeys...)
	return &tc
}

// Clone returns a detached copy of the recitation task.
func (t *RecitationTask) Clone() *RecitationTask {
	if t == nil {
		return nil
	}
	tc := *t
	tc.FocusAreas = append([]string(nil), t.FocusAreas...)
	if t.SubmittedAt != nil {
		at := *t.SubmittedAt
		tc.SubmittedAt = &at
	}
	if t.ReviewedAt != nil {
		at := *t.ReviewedAt
		tc.ReviewedAt = &at
	}
	return &tc
}

// Clone returns a detached copy of the assignment.
func (a *Assignment) Clone() *Assignment {
	if a == nil {
		return nil
	}
	ac := *a
	ac.Submissions = make(map[string]*Submission, len(a.Submissions))
	for id, sub := range a.Submissions {
		sc := *sub
		if sub.SubmittedAt != nil {
			at := *sub.SubmittedAt
			sc.SubmittedAt = &at
		}
		ac.Submissions[id] = &sc
	}
	return &ac
}
