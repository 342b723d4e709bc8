package copilot

// Companies and Roles are the choices offered by the interview form. Any
// other value is accepted as well.
var (
	Companies = []string{"Amazon", "Google", "Microsoft", "Meta", "Apple", "Netflix", "Other"}
	Roles     = []string{
		"SDE",
		"ML Engineer",
		"Data Scientist",
		"DevOps Engineer",
		"Frontend Developer",
		"Backend Developer",
		"Full Stack Developer",
		"Other",
	}
)
