package economic

import "encoding/json"

// SelfInfo is the response of GET /self — the only way to learn which
// agreement a grant token actually belongs to.
type SelfInfo struct {
	AgreementNumber int `json:"agreementNumber"`
	Company         struct {
		Name string `json:"name"`
	} `json:"company"`
	Application struct {
		AppNumber int    `json:"appNumber"`
		Name      string `json:"name"`
	} `json:"application"`
}

// collectionEnvelope is the wire shape of every paginated listing endpoint.
// NextPage is a fully-qualified URL to the next page, absent on the last one.
type collectionEnvelope struct {
	Collection []json.RawMessage `json:"collection"`
	Pagination struct {
		NextPage string `json:"nextPage"`
	} `json:"pagination"`
}
