package xerrors

// Unwrap splits a joined error into its parts. Any other error is returned as the only element.
func Unwrap(err error) []error {
	if err == nil {
		return nil
	}
	u, ok := err.(interface {
		Unwrap() []error
	})
	if !ok {
		return []error{err}
	}
	return u.Unwrap()
}

// Messages returns the message of every part of err.
func Messages(err error) []string {
	errs := Unwrap(err)
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			messages = append(messages, e.Error())
		}
	}
	return messages
}
