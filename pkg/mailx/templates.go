package mailx

import (
	"bytes"
	htmltpl "html/template"
	texttpl "text/template"
)

// ResetVars fill the password reset templates.
type ResetVars struct {
	Issuer string
	Name   string
	Code   string
	TTL    string
}

var (
	resetText = texttpl.Must(texttpl.New("reset_txt").Parse(
		`Hello {{.Name}},

Your {{.Issuer}} password reset code is {{.Code}}.
It expires in {{.TTL}}. If you did not ask for a reset you can ignore this email.
`))

	resetHTML = htmltpl.Must(htmltpl.New("reset_html").Parse(
		`<p>Hello {{.Name}},</p>
<p>Your {{.Issuer}} password reset code is <strong>{{.Code}}</strong>.</p>
<p>It expires in {{.TTL}}. If you did not ask for a reset you can ignore this email.</p>
`))
)

// PasswordReset renders the reset email addressed to to.
func PasswordReset(to string, vars ResetVars) (Message, error) {
	var text, html bytes.Buffer
	if err := resetText.Execute(&text, vars); err != nil {
		return Message{}, err
	}
	if err := resetHTML.Execute(&html, vars); err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: vars.Issuer + " password reset code",
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
