package auth

import "golang.org/x/crypto/bcrypt"

// PasscodeChecker keeps only the bcrypt hash of the device passcode.
type PasscodeChecker struct {
	hash []byte
}

func NewPasscodeChecker(passcode string) (*PasscodeChecker, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &PasscodeChecker{hash: hash}, nil
}

func (p *PasscodeChecker) Check(passcode string) bool {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(passcode)) == nil
}
