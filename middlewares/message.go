package middlewares

var Responses = struct {
	FailedValidations   *NewRM
	InternalServerError *NewRM
	Unauthorized        *NewRM
	InvalidRoles        *NewRM
	ApplicationNotFound *NewRM
	AdminNotFound       *NewRM
	ApplicationRejected *NewRM
}{
	FailedValidations: &NewRM{
		Language.English: "Failed field validations",
		Language.Tamil:   "சரிபார்ப்பு தோல்வியடைந்தது",
	},
	InternalServerError: &NewRM{
		Language.English: "Internal server error",
		Language.Tamil:   "சேவையக பிழை",
	},
	Unauthorized: &NewRM{
		Language.English: "Unauthorized",
		Language.Tamil:   "அனுமதி இல்லை",
	},
	InvalidRoles: &NewRM{
		Language.English: "Invalid roles",
		Language.Tamil:   "இந்த செயலைச் செய்ய உங்களுக்கு அனுமதி இல்லை",
	},
	ApplicationNotFound: &NewRM{
		Language.English: "Application not found",
		Language.Tamil:   "விண்ணப்பம் கிடைக்கவில்லை",
	},
	AdminNotFound: &NewRM{
		Language.English: "Admin user not found",
		Language.Tamil:   "நிர்வாகி கிடைக்கவில்லை",
	},
	ApplicationRejected: &NewRM{
		Language.English: "Application is not approved for payment",
		Language.Tamil:   "விண்ணப்பத்திற்கு கட்டணம் செலுத்த அனுமதி இல்லை",
	},
}

type NewRM map[string]string

var Language = struct {
	English string
	Tamil   string
}{
	English: "en",
	Tamil:   "ta",
}

var LanguageMap = map[string]string{
	Language.English: "English",
	Language.Tamil:   "Tamil",
}
