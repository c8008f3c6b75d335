package model

// Person is a directory entry in the Google People API shape the Hermes
// backend emits for /person, regardless of the directory behind it.
type Person struct {
	ResourceName   string        `json:"resourceName,omitempty"`
	Names          []PersonName  `json:"names,omitempty"`
	EmailAddresses []PersonEmail `json:"emailAddresses,omitempty"`
	Photos         []PersonPhoto `json:"photos,omitempty"`
}

type PersonName struct {
	DisplayName string `json:"displayName,omitempty"`
	GivenName   string `json:"givenName,omitempty"`
	FamilyName  string `json:"familyName,omitempty"`
}

type PersonEmail struct {
	Value string `json:"value"`
}

type PersonPhoto struct {
	URL string `json:"url"`
}

// Email returns the primary email address, or "" if none is set.
func (p Person) Email() string {
	if len(p.EmailAddresses) == 0 {
		return ""
	}
	return p.EmailAddresses[0].Value
}

func (p Person) DisplayName() string {
	if len(p.Names) == 0 {
		return ""
	}
	return p.Names[0].DisplayName
}

func (p Person) GivenName() string {
	if len(p.Names) == 0 {
		return ""
	}
	return p.Names[0].GivenName
}

func (p Person) PhotoURL() string {
	if len(p.Photos) == 0 {
		return ""
	}
	return p.Photos[0].URL
}

// Group is a directory group that can stand in for a person as an approver.
type Group struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}
