package middleware

import tele "gopkg.in/telebot.v4"

// AccessOptions defines how admin and staff checks behave.
type AccessOptions struct {
	AdminID    int64
	SupportIDs []int64
	OnReject   tele.HandlerFunc
}

func (o AccessOptions) isAdmin(id int64) bool {
	return o.AdminID != 0 && id == o.AdminID
}

func (o AccessOptions) isStaff(id int64) bool {
	if o.isAdmin(id) {
		return true
	}
	for _, sid := range o.SupportIDs {
		if sid != 0 && sid == id {
			return true
		}
	}
	return false
}

// AdminOnlyMiddleware ensures that only the primary admin can invoke downstream handlers.
func AdminOnlyMiddleware(opts AccessOptions) tele.MiddlewareFunc {
	return guard(opts, opts.isAdmin)
}

// StaffOnlyMiddleware allows the primary admin and configured support accounts.
func StaffOnlyMiddleware(opts AccessOptions) tele.MiddlewareFunc {
	return guard(opts, opts.isStaff)
}

func guard(opts AccessOptions, allowed func(int64) bool) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || !allowed(user.ID) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
