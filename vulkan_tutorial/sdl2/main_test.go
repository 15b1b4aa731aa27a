package main

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

type stageLog struct {
	calls []string
}

func (l *stageLog) record(name string) func() {
	return func() {
		l.calls = append(l.calls, name)
	}
}

func (l *stageLog) stage(name string, err error) func() error {
	return func() error {
		l.calls = append(l.calls, name)
		return err
	}
}

func TestRunStagesCleansUpWhenFirstStageFails(t *testing.T) {
	steps := &stageLog{}
	noWindow := errors.New("no video device")

	err := runStages(steps.record("cleanup"), steps.record("loop"),
		steps.stage("initWindow", noWindow),
		steps.stage("initVulkan", nil),
	)

	assert.True(t, errors.Is(err, noWindow))
	assert.Equal(t, []string{"initWindow", "cleanup"}, steps.calls)
}

func TestRunStagesLaterFailure(t *testing.T) {
	steps := &stageLog{}
	rejected := errors.New("driver rejected")

	err := runStages(steps.record("cleanup"), steps.record("loop"),
		steps.stage("initWindow", nil),
		steps.stage("initVulkan", rejected),
	)

	assert.True(t, errors.Is(err, rejected))
	assert.Equal(t, []string{"initWindow", "initVulkan", "cleanup"}, steps.calls)
}

func TestRunStagesRunsLoop(t *testing.T) {
	steps := &stageLog{}

	err := runStages(steps.record("cleanup"), steps.record("loop"),
		steps.stage("initWindow", nil),
		steps.stage("initVulkan", nil),
	)

	assert.NoError(t, err)
	assert.Equal(t, []string{"initWindow", "initVulkan", "loop", "cleanup"}, steps.calls)
}
