package sanity_check_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"seq2img/tools/sanity_check"
)

func TestRunPasses(t *testing.T) {
	log, hook := test.NewNullLogger()
	results, err := sanity_check.Run(log)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		require.NoError(t, r.Err, r.Name)
	}
	for _, e := range hook.AllEntries() {
		require.NotEqual(t, logrus.ErrorLevel, e.Level)
	}
	require.Equal(t, "successfully running seq2img", hook.LastEntry().Message)
}
