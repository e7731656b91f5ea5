package convert

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
)

func TestCheck_Agree(t *testing.T) {
	dir := project(t, YarnLock, yarnFixture, PackageLock, npmFixture)

	report, err := Check(context.Background(), dir, Options{})
	require.NoError(t, err)
	assert.True(t, report.Agree())
	assert.Len(t, report.YarnFingerprint, 16)
	assert.Empty(t, report.OnlyInYarn)
	assert.Empty(t, report.OnlyInNpm)
}

func TestCheck_AfterConversion(t *testing.T) {
	dir := project(t, YarnLock, yarnFixture)
	_, err := YarnToNpm(context.Background(), dir, Options{})
	require.NoError(t, err)

	report, err := Check(context.Background(), dir, Options{})
	require.NoError(t, err)
	assert.True(t, report.Agree())
}

func TestCheck_Disagree(t *testing.T) {
	stale := strings.Replace(yarnFixture, `version "4.17.21"`, `version "4.17.20"`, 1)
	dir := project(t, YarnLock, stale, PackageLock, npmFixture)

	report, err := Check(context.Background(), dir, Options{})
	require.NoError(t, err)
	assert.False(t, report.Agree())
	assert.Equal(t, []string{"lodash@4.17.20 (registry)"}, report.OnlyInYarn)
	assert.Equal(t, []string{"lodash@4.17.21 (registry)"}, report.OnlyInNpm)
}

func TestCheck_MissingLockfile(t *testing.T) {
	_, err := Check(context.Background(), project(t, YarnLock, yarnFixture), Options{})
	assert.True(t, errs.Is(err, errs.ErrCodeFileNotFound), "got %v", err)
}
