package layoutadmin

// UploadConfiguration holds the app versions a new layout is published for.
type UploadConfiguration struct {
	DoctorAppVersion  string
	PatientAppVersion string
	Platform          string
}

// DefaultUploadConfiguration targets every app version that supports
// templated layouts.
var DefaultUploadConfiguration = UploadConfiguration{
	DoctorAppVersion:  "1.2.0",
	PatientAppVersion: "1.2.0",
	Platform:          "iOS",
}

func (c UploadConfiguration) withDefaults() UploadConfiguration {
	if c.DoctorAppVersion == "" {
		c.DoctorAppVersion = DefaultUploadConfiguration.DoctorAppVersion
	}
	if c.PatientAppVersion == "" {
		c.PatientAppVersion = DefaultUploadConfiguration.PatientAppVersion
	}
	if c.Platform == "" {
		c.Platform = DefaultUploadConfiguration.Platform
	}
	return c
}
