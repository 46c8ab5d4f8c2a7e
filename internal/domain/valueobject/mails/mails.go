package mails

// Payload is a single outbound email. Body is the plain-text fallback
// used when HTMLBody is empty or the provider strips markup.
type Payload struct {
	To       string
	Subject  string
	Body     string
	HTMLBody string
}

const authCodeSubjectPrefix = "nestpass - Auth Code: "

const authCodeHTML = `
<table cellpadding="0" cellspacing="0" style="vertical-align: -webkit-baseline-middle; font-size: medium; font-family: Arial;">
  <tbody>
    <span>Your auth code expires in <b>3 min</b></span>
    <tr>
      <td width="190">
        <img src="">
      </td>
      <td>
        <table cellpadding="20" cellspacing="0" style="vertical-align: -webkit-baseline-middle; font-size: medium; font-family: Arial; width: 100%;">
          <tbody>
            <tr>
              <td>
                <p style="margin: 0px; font-size: 15px; font-weight:bold; color: #111; line-height: 20px;">
                  <span>MAIL Service</span>
                </p>
                <p style="margin: 0px; color: #687087; font-size: 14px; line-height: 20px;">
                  <span>domain nestpass.tech</span>
                </p>
                <p style="margin: 0px; color: #687087; font-size: 14px; line-height: 20px;"></p>
              </td>
            </tr>
          </tbody>
        </table>
      </td>
    </tr>
  </tbody>
</table>
`

// NewAuthCodePayload builds the verification email for a freshly
// issued code.
func NewAuthCodePayload(to, code string) Payload {
	return Payload{
		To:       to,
		Subject:  authCodeSubjectPrefix + code,
		Body:     "Your auth code is " + code + ". It expires in 3 minutes.",
		HTMLBody: authCodeHTML,
	}
}
