package model

import "fmt"

// AuthRole is the closed set of roles an auth record can carry.
type AuthRole byte

const (
	RoleAdmin AuthRole = iota
	RoleManager
	RoleServer
)

// AuthStatus is the lifecycle state of an auth record.
type AuthStatus byte

const (
	StatusNotActivated AuthStatus = iota
	StatusActivated
	StatusBlocked
)

// CodeType scopes a confirmation code to the purpose it proves.
type CodeType byte

const (
	CodeActivatePerson CodeType = iota
	CodeResetPassword
)

// AbonnementValidity is the window a sold abonnement stays usable.
type AbonnementValidity byte

const (
	ValidityOneMonth AbonnementValidity = iota
	ValidityThreeMonths
	ValiditySixMonths
	ValidityYear
)

// Discount is the closed set of discount steps a sale may apply.
type Discount byte

const (
	DiscountD0 Discount = iota
	DiscountD5
	DiscountD10
	DiscountD15
	DiscountD20
	DiscountD25
	DiscountD30
	DiscountD40
	DiscountD50
	DiscountD60
	DiscountD70
	DiscountD80
	DiscountD90
)

// Storage codes. The tables below are the only place where enum values and
// their persisted byte codes meet; the codes are part of the schema and must
// not be renumbered.

var roleCodes = map[AuthRole]byte{
	RoleAdmin:   1,
	RoleManager: 2,
	RoleServer:  3,
}

var statusCodes = map[AuthStatus]byte{
	StatusNotActivated: 1,
	StatusActivated:    2,
	StatusBlocked:      3,
}

var codeTypeCodes = map[CodeType]byte{
	CodeActivatePerson: 1,
	CodeResetPassword:  2,
}

var validityCodes = map[AbonnementValidity]byte{
	ValidityOneMonth:    1,
	ValidityThreeMonths: 2,
	ValiditySixMonths:   3,
	ValidityYear:        4,
}

var discountCodes = map[Discount]byte{
	DiscountD0:  0,
	DiscountD5:  5,
	DiscountD10: 10,
	DiscountD15: 15,
	DiscountD20: 20,
	DiscountD25: 25,
	DiscountD30: 30,
	DiscountD40: 40,
	DiscountD50: 50,
	DiscountD60: 60,
	DiscountD70: 70,
	DiscountD80: 80,
	DiscountD90: 90,
}

func (r AuthRole) Code() byte           { return roleCodes[r] }
func (s AuthStatus) Code() byte         { return statusCodes[s] }
func (t CodeType) Code() byte           { return codeTypeCodes[t] }
func (v AbonnementValidity) Code() byte { return validityCodes[v] }
func (d Discount) Code() byte           { return discountCodes[d] }

// Fraction converts a discount step into the multiplier subtracted from 1.0
// when a sale price is computed.
func (d Discount) Fraction() float32 { return float32(discountCodes[d]) / 100 }

func reverse[K comparable](m map[K]byte) map[byte]K {
	out := make(map[byte]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

var (
	rolesByCode      = reverse(roleCodes)
	statusesByCode   = reverse(statusCodes)
	codeTypesByCode  = reverse(codeTypeCodes)
	validitiesByCode = reverse(validityCodes)
	discountsByCode  = reverse(discountCodes)
)

func RoleFromCode(b byte) (AuthRole, error) {
	r, ok := rolesByCode[b]
	if !ok {
		return 0, fmt.Errorf("unknown role code %d", b)
	}
	return r, nil
}

func StatusFromCode(b byte) (AuthStatus, error) {
	s, ok := statusesByCode[b]
	if !ok {
		return 0, fmt.Errorf("unknown status code %d", b)
	}
	return s, nil
}

func CodeTypeFromCode(b byte) (CodeType, error) {
	t, ok := codeTypesByCode[b]
	if !ok {
		return 0, fmt.Errorf("unknown code type %d", b)
	}
	return t, nil
}

func ValidityFromCode(b byte) (AbonnementValidity, error) {
	v, ok := validitiesByCode[b]
	if !ok {
		return 0, fmt.Errorf("unknown validity code %d", b)
	}
	return v, nil
}

func DiscountFromCode(b byte) (Discount, error) {
	d, ok := discountsByCode[b]
	if !ok {
		return 0, fmt.Errorf("unknown discount code %d", b)
	}
	return d, nil
}

// String names are what the HTTP layer exchanges with clients.

func (r AuthRole) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleManager:
		return "MANAGER"
	case RoleServer:
		return "SERVER"
	}
	return "UNKNOWN"
}

func ParseRole(s string) (AuthRole, error) {
	switch s {
	case "ADMIN":
		return RoleAdmin, nil
	case "MANAGER":
		return RoleManager, nil
	case "SERVER":
		return RoleServer, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (s AuthStatus) String() string {
	switch s {
	case StatusNotActivated:
		return "NOT_ACTIVATED"
	case StatusActivated:
		return "ACTIVATED"
	case StatusBlocked:
		return "BLOCKED"
	}
	return "UNKNOWN"
}

func (v AbonnementValidity) String() string {
	switch v {
	case ValidityOneMonth:
		return "ONE_MONTH"
	case ValidityThreeMonths:
		return "THREE_MONTHS"
	case ValiditySixMonths:
		return "SIX_MONTHS"
	case ValidityYear:
		return "YEAR"
	}
	return "UNKNOWN"
}

func ParseValidity(s string) (AbonnementValidity, error) {
	switch s {
	case "ONE_MONTH":
		return ValidityOneMonth, nil
	case "THREE_MONTHS":
		return ValidityThreeMonths, nil
	case "SIX_MONTHS":
		return ValiditySixMonths, nil
	case "YEAR":
		return ValidityYear, nil
	}
	return 0, fmt.Errorf("unknown validity %q", s)
}

// Months returns the number of calendar months a validity spans.
func (v AbonnementValidity) Months() int {
	switch v {
	case ValidityOneMonth:
		return 1
	case ValidityThreeMonths:
		return 3
	case ValiditySixMonths:
		return 6
	case ValidityYear:
		return 12
	}
	return 0
}
