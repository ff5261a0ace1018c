package model

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&Category{},
		&Test{},
		&Question{},
		&Plan{},
		&User{},
		&Purchase{},
		&AttemptLog{},
		&TestResult{},
		&Favorite{},
		&Banner{},
		&Notification{},
	}
}
