package store

import (
	"testing"

	"github.com/openshelf/openshelf/model"
)

func mustCreatePost(t *testing.T, s *Store, title string) *model.Post {
	t.Helper()
	post, err := s.CreatePost(&model.Post{
		Title:   title,
		Author:  "Librarian",
		Content: "Some words about reading.",
	})
	if err != nil {
		t.Fatalf("Failed to create post %q: %v", title, err)
	}
	return post
}

func TestLikePostIdempotent(t *testing.T) {
	s := newTestStore(t)
	post := mustCreatePost(t, s, "Why We Read")

	count, added, err := s.LikePost(post.ID, "session-a")
	if err != nil {
		t.Fatalf("Failed to like post: %v", err)
	}
	if !added || count != 1 {
		t.Errorf("Expected first like to count, got added=%v count=%d", added, count)
	}

	// The same session liking again changes nothing.
	count, added, err = s.LikePost(post.ID, "session-a")
	if err != nil {
		t.Fatalf("Failed to like post again: %v", err)
	}
	if added || count != 1 {
		t.Errorf("Expected repeat like to be absorbed, got added=%v count=%d", added, count)
	}

	count, added, err = s.LikePost(post.ID, "session-b")
	if err != nil {
		t.Fatalf("Failed to like post: %v", err)
	}
	if !added || count != 2 {
		t.Errorf("Expected second session to count, got added=%v count=%d", added, count)
	}
}

func TestIncrementReadCount(t *testing.T) {
	s := newTestStore(t)
	post := mustCreatePost(t, s, "Summer Picks")

	for i := 0; i < 3; i++ {
		if err := s.IncrementReadCount(post.ID); err != nil {
			t.Fatalf("Failed to increment read count: %v", err)
		}
	}

	got, err := s.GetPost(&model.FindPost{ID: &post.ID})
	if err != nil {
		t.Fatalf("Failed to get post: %v", err)
	}
	if got.ReadCount != 3 {
		t.Errorf("Expected read count 3, got %d", got.ReadCount)
	}
}

func TestIncrementShareCount(t *testing.T) {
	s := newTestStore(t)
	post := mustCreatePost(t, s, "Library News")

	count, err := s.IncrementShareCount(post.ID)
	if err != nil {
		t.Fatalf("Failed to increment share count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected share count 1, got %d", count)
	}

	if _, err := s.IncrementShareCount(9999); err == nil {
		t.Error("Expected error for missing post")
	}
}

func TestPostComments(t *testing.T) {
	s := newTestStore(t)
	post := mustCreatePost(t, s, "Book Club")

	held, err := s.CreatePostComment(&model.PostComment{
		PostID:  post.ID,
		Author:  "Reader",
		Content: "Count me in.",
	})
	if err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}

	visible, err := s.ListPostComments(&model.FindPostComment{PostID: &post.ID, ApprovedOnly: true})
	if err != nil {
		t.Fatalf("Failed to list comments: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("Expected held comment to be hidden, got %d", len(visible))
	}

	if err := s.ApprovePostComment(held.ID); err != nil {
		t.Fatalf("Failed to approve comment: %v", err)
	}
	visible, err = s.ListPostComments(&model.FindPostComment{PostID: &post.ID, ApprovedOnly: true})
	if err != nil {
		t.Fatalf("Failed to list comments: %v", err)
	}
	if len(visible) != 1 {
		t.Errorf("Expected 1 visible comment, got %d", len(visible))
	}
}

func TestArchivePost(t *testing.T) {
	s := newTestStore(t)
	post := mustCreatePost(t, s, "Old Announcement")

	if err := s.ArchivePost(post.ID); err != nil {
		t.Fatalf("Failed to archive post: %v", err)
	}

	normal := model.Normal
	visible, err := s.ListPosts(&model.FindPost{RowStatus: &normal})
	if err != nil {
		t.Fatalf("Failed to list posts: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("Expected archived post hidden from feed, got %d", len(visible))
	}
}
