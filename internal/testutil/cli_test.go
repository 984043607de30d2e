package testutil

import (
	"os"
	"testing"
)

func TestNewCLITestIsolation(t *testing.T) {
	c := NewCLITest(t)

	if _, err := os.Stat(c.ConfigPath()); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if c.Config().DBPath == "" || c.DBPath() != c.Config().DBPath {
		t.Errorf("DBPath = %q", c.DBPath())
	}
	if !c.Config().NoPrompt {
		t.Error("NoPrompt should default to true")
	}
}

func TestPersistedTasksEmptyBeforeAnyWrite(t *testing.T) {
	c := NewCLITest(t)
	c.MustExecute("list")

	if tasks := c.PersistedTasks(); len(tasks) != 0 {
		t.Errorf("expected no persisted tasks, got %+v", tasks)
	}
}

func TestPersistedTasksAfterAdd(t *testing.T) {
	c := NewCLITest(t)
	c.MustExecute("add", "buy", "milk")

	tasks := c.PersistedTasks()
	if len(tasks) != 1 || tasks[0].Text != "buy milk" {
		t.Fatalf("persisted = %+v", tasks)
	}
	if c.TaskID("buy milk") == "" {
		t.Error("TaskID returned empty id")
	}
}

func TestSetConfigValue(t *testing.T) {
	c := NewCLITest(t)
	c.SetConfigValue("default_filter", "completed")

	data, err := os.ReadFile(c.ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	AssertContains(t, string(data), "default_filter: completed")
}

func TestAssertResultCode(t *testing.T) {
	AssertResultCode(t, "Created task: x (ID: 1)\nACTION_COMPLETED\n", ResultActionCompleted)
}
