package models

import "time"

// SkillCategory groups skills for filtering and statistics.
type SkillCategory string

// Skill categories.
const (
	SkillCategoryTechnical   SkillCategory = "TECHNICAL"
	SkillCategoryProgramming SkillCategory = "PROGRAMMING"
	SkillCategoryDatabase    SkillCategory = "DATABASE"
	SkillCategoryFramework   SkillCategory = "FRAMEWORK"
	SkillCategorySoftSkill   SkillCategory = "SOFT_SKILL"
	SkillCategoryLanguage    SkillCategory = "LANGUAGE"
	SkillCategoryManagement  SkillCategory = "MANAGEMENT"
	SkillCategoryDesign      SkillCategory = "DESIGN"
	SkillCategoryOther       SkillCategory = "OTHER"
)

// Valid reports whether the category is a recognised value.
func (c SkillCategory) Valid() bool {
	switch c {
	case SkillCategoryTechnical, SkillCategoryProgramming, SkillCategoryDatabase,
		SkillCategoryFramework, SkillCategorySoftSkill, SkillCategoryLanguage,
		SkillCategoryManagement, SkillCategoryDesign, SkillCategoryOther:
		return true
	}
	return false
}

// ProficiencyLevel grades how well a student commands a skill.
type ProficiencyLevel string

const (
	ProficiencyBeginner     ProficiencyLevel = "BEGINNER"
	ProficiencyIntermediate ProficiencyLevel = "INTERMEDIATE"
	ProficiencyAdvanced     ProficiencyLevel = "ADVANCED"
	ProficiencyExpert       ProficiencyLevel = "EXPERT"
)

// Valid reports whether the proficiency level is a recognised value.
func (p ProficiencyLevel) Valid() bool {
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert:
		return true
	}
	return false
}

// Skill is a reviewable claim of competence made for a student. New skills
// start PENDING and are verified or rejected by HR.
type Skill struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	StudentID         uint             `gorm:"index;not null" json:"student_id"`
	SkillName         string           `gorm:"size:100;index;not null" json:"skill_name"`
	Category          SkillCategory    `gorm:"size:20;index;not null" json:"category"`
	ProficiencyLevel  ProficiencyLevel `gorm:"size:20;not null" json:"proficiency_level"`
	YearsOfExperience float64          `json:"years_of_experience"`
	Certified         bool             `gorm:"not null;default:false" json:"certified"`
	CertificationName string           `gorm:"size:200" json:"certification_name,omitempty"`
	Description       string           `gorm:"size:1000" json:"description,omitempty"`
	Review            Review           `gorm:"embedded" json:"review"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
