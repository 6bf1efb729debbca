package domain

import "testing"

func TestWithApprovalCouplesFlagAndStatus(t *testing.T) {
	t.Parallel()

	c := Comment{}.WithApproval(true)
	if !c.Approved || c.Status != CommentApproved {
		t.Fatalf("unexpected approved state: %+v", c)
	}

	c = Comment{}.WithApproval(false)
	if c.Approved || c.Status != CommentPending {
		t.Fatalf("unexpected pending state: %+v", c)
	}
}

func TestModerationTransitions(t *testing.T) {
	t.Parallel()

	base := Comment{Status: CommentPending, Active: true}

	approved := base.Approve()
	if !approved.Approved || approved.Status != CommentApproved {
		t.Fatalf("unexpected state after approve: %+v", approved)
	}

	rejected := approved.Reject()
	if rejected.Approved || rejected.Status != CommentRejected {
		t.Fatalf("unexpected state after reject: %+v", rejected)
	}

	// Transitions return snapshots; the original value is untouched.
	if base.Status != CommentPending {
		t.Fatalf("base comment mutated: %+v", base)
	}

	deleted := approved.Deactivate()
	if deleted.Active {
		t.Fatal("expected inactive comment after deactivate")
	}
	if deleted.Status != CommentApproved {
		t.Fatalf("deactivate must not change status, got %s", deleted.Status)
	}
}

func TestIsReply(t *testing.T) {
	t.Parallel()

	if (Comment{}).IsReply() {
		t.Fatal("top-level comment reported as reply")
	}
	if !(Comment{ParentID: 3}).IsReply() {
		t.Fatal("reply not detected")
	}
}
