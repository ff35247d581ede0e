package sanitizer

import (
	"strings"

	"korskola/pkg/model"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	namePipeline  = Pipeline{StripInvisible, CollapseWhitespace}
	emailPipeline = Pipeline{strings.TrimSpace, strings.ToLower}
)

func NormalizeName(name string) string {
	return namePipeline.Apply(name)
}

func NormalizeEmail(email string) string {
	return emailPipeline.Apply(email)
}

// NormalizePerson normalizes every identifying field in place.
func NormalizePerson(p *model.Person) {
	if p == nil {
		return
	}
	p.FirstName = NormalizeName(p.FirstName)
	p.LastName = NormalizeName(p.LastName)
	p.Email = NormalizeEmail(p.Email)
	p.Phone = NormalizePhone(p.Phone)
	p.PersonalNumber = NormalizePersonalNumber(p.PersonalNumber)
}

func NormalizeSupervisor(s *model.Supervisor) {
	if s == nil {
		return
	}
	s.Name = NormalizeName(s.Name)
	s.Email = NormalizeEmail(s.Email)
	s.Phone = NormalizePhone(s.Phone)
	s.PersonalNumber = NormalizePersonalNumber(s.PersonalNumber)
}
