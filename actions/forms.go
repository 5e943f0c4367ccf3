package actions

import "net/url"

// formValue returns the first non-empty value among keys, so both
// confirmPassword and confirm_password style form names work.
func formValue(values url.Values, keys ...string) string {
	for _, key := range keys {
		if v := values.Get(key); v != "" {
			return v
		}
	}
	return ""
}

func LoginFieldsFromValues(values url.Values) LoginFields {
	return LoginFields{
		Email:    formValue(values, "email"),
		Password: formValue(values, "password"),
	}
}

func SignupFieldsFromValues(values url.Values) SignupFields {
	return SignupFields{
		Email:           formValue(values, "email"),
		Username:        formValue(values, "username"),
		Password:        formValue(values, "password"),
		ConfirmPassword: formValue(values, "confirmPassword", "confirm_password"),
		FirstName:       formValue(values, "firstName", "first_name"),
		LastName:        formValue(values, "lastName", "last_name"),
	}
}

func ForgotPasswordFieldsFromValues(values url.Values) ForgotPasswordFields {
	return ForgotPasswordFields{Email: formValue(values, "email")}
}

func ResetPasswordFieldsFromValues(values url.Values) ResetPasswordFields {
	return ResetPasswordFields{
		Token:           formValue(values, "token"),
		Password:        formValue(values, "password", "new_password"),
		ConfirmPassword: formValue(values, "confirmPassword", "confirm_password"),
	}
}
