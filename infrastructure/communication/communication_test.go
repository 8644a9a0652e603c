package communication

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	return &ses.SendEmailOutput{MessageId: aws.String("m-1")}, f.err
}

type recorder struct {
	info, errs []string
	fail       error
}

func (r *recorder) Info(message string) error {
	r.info = append(r.info, message)
	return r.fail
}

func (r *recorder) Error(message string) error {
	r.errs = append(r.errs, message)
	return r.fail
}

func TestEmail(t *testing.T) {
	fake := &fakeSES{}
	e := &Email{client: fake, from: "gateway@example.com", to: []string{"ops@example.com"}, subject: "ADMS"}

	require.NoError(t, e.Error("delivery failed"))
	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]
	assert.Equal(t, "gateway@example.com", *in.Source)
	assert.Equal(t, []string{"ops@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "[error] ADMS", *in.Message.Subject.Data)
	assert.Equal(t, "delivery failed", *in.Message.Body.Text.Data)

	fake.err = errors.New("throttled")
	assert.Error(t, e.Info("hello"))

	none := &Email{client: fake}
	assert.NoError(t, none.Info("dropped"))
	assert.Len(t, fake.inputs, 2)
}

func TestMulti(t *testing.T) {
	a := &recorder{}
	b := &recorder{fail: errors.New("down")}
	m := Multi{a, b}

	assert.Error(t, m.Error("boom"))
	assert.NoError(t, Multi{a}.Info("fine"))
	assert.Equal(t, []string{"boom"}, a.errs)
	assert.Equal(t, []string{"boom"}, b.errs)
	assert.Equal(t, []string{"fine"}, a.info)
}

func TestSlack(t *testing.T) {
	var channels []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		channels = append(channels, r.Form.Get("channel"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"channel":"C1","ts":"1.0"}`))
	}))
	defer srv.Close()

	s := NewSlack("xoxb-test", SlackOption{ErrorChannelID: "C-ERR"}, slack.OptionAPIURL(srv.URL+"/"))
	require.NoError(t, s.Error("webhook down"))
	require.NoError(t, s.Info("skipped, no info channel"))
	assert.Equal(t, []string{"C-ERR"}, channels)
}
