// Copyright © 2026 One Concern

package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/oneconcern/orgsync/pkg/core/status"
	"github.com/oneconcern/orgsync/pkg/errors"
	"github.com/oneconcern/orgsync/pkg/runner"
	"github.com/oneconcern/orgsync/pkg/runner/mockrunner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// envelopeRunner builds a mock runner answering each command name with a
// canned envelope
func envelopeRunner(t testing.TB, answers map[string]runner.Envelope) *mockrunner.RunnerMock {
	return &mockrunner.RunnerMock{
		StartFunc: func(_ context.Context, cmd runner.Command) (runner.Process, error) {
			envelope, ok := answers[cmd.Name]
			if !ok {
				t.Errorf("unexpected command: %s %v", cmd.Name, cmd.Args)
				return nil, errors.New("unexpected command")
			}
			return &mockrunner.ProcessMock{
				NameVal: cmd.Name,
				ResultFunc: func() (runner.Envelope, error) {
					return envelope, nil
				},
			}, nil
		},
	}
}

func membersEnvelope(t testing.TB, members interface{}) runner.Envelope {
	raw, err := json.Marshal(members)
	require.NoError(t, err)
	return runner.Envelope{Status: 0, Result: raw}
}

func TestListMetadataTypes(t *testing.T) {
	t.Parallel()
	result := map[string]interface{}{
		"metadataObjects": []map[string]interface{}{
			{"xmlName": "Workflow", "suffix": "workflow", "directoryName": "workflows"},
			{"xmlName": "CustomObject", "suffix": "object", "directoryName": "objects"},
			{"xmlName": "Profile", "suffix": "profile", "directoryName": "profiles"},
		},
	}
	raw, err := json.Marshal(result)
	require.NoError(t, err)

	c := NewConnection(
		Org("test@example.org"),
		Runner(envelopeRunner(t, map[string]runner.Envelope{
			"describemetadata": {Status: 0, Result: raw},
		})),
	)

	summaries, err := c.ListMetadataTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// sorted by name
	assert.Equal(t, "CustomObject", summaries[0].Name)
	assert.Equal(t, "Profile", summaries[1].Name)
	assert.Equal(t, "Workflow", summaries[2].Name)
	assert.Equal(t, "objects", summaries[0].Folder)
	assert.False(t, c.InProgress())
}

func TestListMetadataTypesFailure(t *testing.T) {
	t.Parallel()
	c := NewConnection(
		Org("test@example.org"),
		Runner(envelopeRunner(t, map[string]runner.Envelope{
			"describemetadata": {Status: 1, Message: "expired access token"},
		})),
	)

	_, err := c.ListMetadataTypes(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrConnectionFailed))
	assert.False(t, c.InProgress())
}

func TestDescribeMetadataTypes(t *testing.T) {
	t.Parallel()
	answers := map[string]runner.Envelope{
		"listmetadata-CustomField": membersEnvelope(t, []map[string]string{
			{"fullName": "Account.Industry", "fileName": "objects/Account.object", "type": "CustomField"},
			{"fullName": "Account.Rating", "fileName": "objects/Account.object", "type": "CustomField"},
			{"fullName": "Case.Origin", "fileName": "objects/Case.object", "type": "CustomField"},
		}),
		"listmetadata-Workflow": membersEnvelope(t, []map[string]string{}),
	}
	c := NewConnection(Org("test@example.org"), Runner(envelopeRunner(t, answers)))

	tree, err := c.DescribeMetadataTypes(context.Background(), []string{"CustomField", "Workflow"}, true)
	require.NoError(t, err)

	// the empty type is pruned from the result
	require.Len(t, tree, 1)
	mt := tree["CustomField"]
	require.NotNil(t, mt)
	assert.Equal(t, []string{"Account", "Case"}, mt.SortedObjectNames())

	account := mt.GetObject("Account")
	require.NotNil(t, account)
	assert.Equal(t, []string{"Industry", "Rating"}, account.SortedItemNames())
	assert.Equal(t, "objects/Account.object", account.GetItem("Industry").Path)

	caseObject := mt.GetObject("Case")
	require.NotNil(t, caseObject)
	assert.Equal(t, []string{"Origin"}, caseObject.SortedItemNames())
}

func TestDescribeSingleMemberForm(t *testing.T) {
	t.Parallel()
	// the CLI flattens single-element lists into one object
	answers := map[string]runner.Envelope{
		"listmetadata-Profile": membersEnvelope(t, map[string]string{
			"fullName": "Admin", "fileName": "profiles/Admin.profile", "type": "Profile",
		}),
	}
	c := NewConnection(Org("test@example.org"), Runner(envelopeRunner(t, answers)))

	tree, err := c.DescribeMetadataTypes(context.Background(), []string{"Profile"}, true)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.NotNil(t, tree["Profile"].GetObject("Admin"))
}

func TestDescribeNamespaceFilter(t *testing.T) {
	t.Parallel()
	answers := map[string]runner.Envelope{
		"listmetadata-Profile": membersEnvelope(t, []map[string]string{
			{"fullName": "Admin", "fileName": "profiles/Admin.profile"},
			{"fullName": "Packaged", "fileName": "profiles/Packaged.profile", "namespacePrefix": "vendor"},
			{"fullName": "Ours", "fileName": "profiles/Ours.profile", "namespacePrefix": "acme"},
		}),
	}
	c := NewConnection(
		Org("test@example.org"),
		Namespace("acme"),
		Runner(envelopeRunner(t, answers)),
	)

	tree, err := c.DescribeMetadataTypes(context.Background(), []string{"Profile"}, false)
	require.NoError(t, err)
	mt := tree["Profile"]
	require.NotNil(t, mt)
	assert.Equal(t, []string{"Admin", "Ours"}, mt.SortedObjectNames())
}

func TestDescribeUnsupportedTypeOmitted(t *testing.T) {
	t.Parallel()
	answers := map[string]runner.Envelope{
		"listmetadata-Profile": membersEnvelope(t, []map[string]string{
			{"fullName": "Admin", "fileName": "profiles/Admin.profile"},
		}),
		"listmetadata-Bogus": {Status: 1, Message: "INVALID_TYPE: Cannot use: Bogus"},
	}
	c := NewConnection(Org("test@example.org"), Runner(envelopeRunner(t, answers)))

	var dropped []string
	tree, err := c.DescribeMetadataTypes(context.Background(), []string{"Profile", "Bogus"}, true,
		WithProgress(func(ev ProgressEvent) {
			if ev.Stage == StageErrorDownload {
				dropped = append(dropped, ev.MetadataType)
			}
		}),
	)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.NotNil(t, tree["Profile"])
	assert.Equal(t, []string{"Bogus"}, dropped)
}

func TestDescribeHardFailureRejects(t *testing.T) {
	t.Parallel()
	answers := map[string]runner.Envelope{
		"listmetadata-Profile": {Status: 1, Message: "expired access token"},
	}
	c := NewConnection(Org("test@example.org"), Runner(envelopeRunner(t, answers)))

	_, err := c.DescribeMetadataTypes(context.Background(), []string{"Profile"}, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrConnectionFailed))
	assert.False(t, c.InProgress())
}

func TestDescribeEmptyTypeList(t *testing.T) {
	t.Parallel()
	c := NewConnection(Org("test@example.org"), Runner(envelopeRunner(t, nil)))

	tree, err := c.DescribeMetadataTypes(context.Background(), nil, true)
	require.NoError(t, err)
	assert.Empty(t, tree)
}

func TestDescribeAbortKeepsPartialTree(t *testing.T) {
	defer goleak.VerifyNone(t)
	var c *Connection

	run := &mockrunner.RunnerMock{
		StartFunc: func(_ context.Context, cmd runner.Command) (runner.Process, error) {
			return &mockrunner.ProcessMock{
				NameVal: cmd.Name,
				ResultFunc: func() (runner.Envelope, error) {
					switch cmd.Name {
					case "listmetadata-Profile":
						return membersEnvelope(t, []map[string]string{
							{"fullName": "Admin", "fileName": "profiles/Admin.profile"},
						}), nil
					default:
						// an abort lands mid-download: the process dies under us
						c.Abort()
						return runner.Envelope{}, errors.New("killed")
					}
				},
			}, nil
		},
	}
	// single batch keeps the type order deterministic
	c = NewConnection(Org("test@example.org"), MultiThread(false), Runner(run))

	tree, err := c.DescribeMetadataTypes(context.Background(),
		[]string{"Profile", "PermissionSet", "Translations"}, true)
	require.NoError(t, err)
	assert.True(t, c.Aborted())

	// the partial tree holds what completed before the abort
	require.Len(t, tree, 1)
	assert.NotNil(t, tree["Profile"])
}

func TestDescribeProgressCounters(t *testing.T) {
	t.Parallel()
	answers := map[string]runner.Envelope{
		"listmetadata-Profile": membersEnvelope(t, []map[string]string{
			{"fullName": "Admin"},
		}),
		"listmetadata-PermissionSet": membersEnvelope(t, []map[string]string{
			{"fullName": "Support"},
		}),
	}

	var events []ProgressEvent
	c := NewConnection(Org("test@example.org"), Runner(envelopeRunner(t, answers)))

	_, err := c.DescribeMetadataTypes(context.Background(), []string{"Profile", "PermissionSet"}, true,
		WithProgress(func(ev ProgressEvent) {
			events = append(events, ev)
		}),
	)
	require.NoError(t, err)

	// before/after per type
	require.Len(t, events, 4)
	for _, ev := range events {
		assert.Equal(t, float64(50), ev.Increment)
	}
	last := events[len(events)-1]
	assert.Equal(t, StageAfterDownload, last.Stage)
	assert.Equal(t, float64(100), last.Percentage)
}
