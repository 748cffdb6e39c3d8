package validator

import (
	"github.com/pkg/errors"

	"github.com/openshelf/openshelf/model"
	"github.com/openshelf/openshelf/store"
	"github.com/openshelf/openshelf/util"
)

func ValidateSignupRequest(s *store.Store, signup *model.UserSignupRequest) error {
	if signup == nil {
		return errors.New("signup request is nil")
	}
	if err := ValidateStruct(signup); err != nil {
		return err
	}
	if !util.UIDMatcher.MatchString(signup.Username) {
		return errors.New("username is invalid")
	}
	if signup.Email != "" && !util.ValidateEmail(signup.Email) {
		return errors.New("email is invalid")
	}
	if existing, _ := s.GetUser(&model.FindUser{Username: &signup.Username}); existing != nil {
		return errors.New("Username already exists")
	}
	return nil
}

// ValidateMemberCreateRequest checks a new member record, including the
// register number when the caller assigns one by hand.
func ValidateMemberCreateRequest(s *store.Store, create *model.MemberCreateRequest) error {
	if create == nil {
		return errors.New("member request is nil")
	}
	if err := ValidateStruct(create); err != nil {
		return err
	}
	if create.RegisterNumber != "" {
		if existing, _ := s.GetMember(&model.FindMember{RegisterNumber: &create.RegisterNumber}); existing != nil {
			return errors.Errorf("register number %q already exists", create.RegisterNumber)
		}
	}
	return nil
}
