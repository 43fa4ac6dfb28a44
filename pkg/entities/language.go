package entities

type ImplementationLanguage struct {
	ID       int32  `json:"id"`
	Language string `json:"language"`
}

func (l ImplementationLanguage) String() string {
	return l.Language
}
