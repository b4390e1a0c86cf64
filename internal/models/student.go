package models

import "time"

// Student carries the full registration form of the dashboard. Optional
// text fields are pointers so absent values round-trip as SQL NULL, never
// as empty strings.
type Student struct {
	ID                           int64     `db:"id" json:"id"`
	Name                         string    `db:"name" json:"name"`
	BirthDate                    *string   `db:"birth_date" json:"birth_date"`
	Age                          *int      `db:"age" json:"age"`
	Institution                  *string   `db:"institution" json:"institution"`
	Grade                        *string   `db:"grade" json:"grade"`
	Nationality                  *string   `db:"nationality" json:"nationality"`
	Hometown                     *string   `db:"hometown" json:"hometown"`
	State                        *string   `db:"state" json:"state"`
	MaritalStatus                *string   `db:"marital_status" json:"marital_status"`
	Profession                   *string   `db:"profession" json:"profession"`
	Sex                          *string   `db:"sex" json:"sex"`
	ResponsibleName              *string   `db:"responsible_name" json:"responsible_name"`
	ResponsibleContact           *string   `db:"responsible_contact" json:"responsible_contact"`
	AdditionalResponsibleName    *string   `db:"additional_responsible_name" json:"additional_responsible_name"`
	AdditionalResponsibleContact *string   `db:"additional_responsible_contact" json:"additional_responsible_contact"`
	CPF                          string    `db:"cpf" json:"cpf"`
	RG                           string    `db:"rg" json:"rg"`
	UF                           *string   `db:"uf" json:"uf"`
	Address                      *string   `db:"address" json:"address"`
	HasHealthPlan                *bool     `db:"has_health_plan" json:"has_health_plan"`
	HealthPlanName               *string   `db:"health_plan_name" json:"health_plan_name"`
	UsesMedication               *bool     `db:"uses_medication" json:"uses_medication"`
	MedicationName               *string   `db:"medication_name" json:"medication_name"`
	HasAllergy                   *bool     `db:"has_allergy" json:"has_allergy"`
	AllergyType                  *string   `db:"allergy_type" json:"allergy_type"`
	HasSpecialNeeds              *bool     `db:"has_special_needs" json:"has_special_needs"`
	SpecialNeedsType             *string   `db:"special_needs_type" json:"special_needs_type"`
	BloodType                    *string   `db:"blood_type" json:"blood_type"`
	ImageAuthorization           *bool     `db:"image_authorization" json:"image_authorization"`
	CreatedAt                    time.Time `db:"created_at" json:"created_at"`

	// Classes is derived from the student_classes junction at read time.
	Classes []ClassRef `db:"-" json:"classes"`
}
