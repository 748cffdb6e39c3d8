package store

import (
	"testing"
	"time"

	"github.com/openshelf/openshelf/model"
)

func TestNextRegisterNumber(t *testing.T) {
	s := newTestStore(t)

	next, err := s.NextRegisterNumber()
	if err != nil {
		t.Fatalf("Failed to get next register number: %v", err)
	}
	if next != "1" {
		t.Errorf("Expected first register number 1, got %q", next)
	}

	mustCreateMember(t, s, "Ada", "41")
	mustCreateMember(t, s, "Grace", "7")

	next, err = s.NextRegisterNumber()
	if err != nil {
		t.Fatalf("Failed to get next register number: %v", err)
	}
	if next != "42" {
		t.Errorf("Expected next register number 42, got %q", next)
	}
}

func TestCreateMemberDuplicateRegisterNumber(t *testing.T) {
	s := newTestStore(t)
	mustCreateMember(t, s, "Ada", "1001")

	if _, err := s.CreateMember(&model.Member{Name: "Grace", RegisterNumber: "1001"}); err == nil {
		t.Error("Expected duplicate register number to be rejected")
	}
}

func TestDeleteMemberWithOpenLoan(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "Piranesi", 1)
	member := mustCreateMember(t, s, "Ada", "1001")

	loan, err := s.IssueBook(book.ID, member.ID, time.Now(), 14, 3)
	if err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}
	if err := s.DeleteMember(member.ID); err == nil {
		t.Error("Expected delete to be refused while a loan is open")
	}

	if _, err := s.ReturnBook(loan.ID, time.Now(), 1); err != nil {
		t.Fatalf("Failed to return book: %v", err)
	}
	if err := s.DeleteMember(member.ID); err != nil {
		t.Errorf("Failed to delete member after return: %v", err)
	}
}

func TestListMembersByStatus(t *testing.T) {
	s := newTestStore(t)
	mustCreateMember(t, s, "Ada", "1001")
	grace := mustCreateMember(t, s, "Grace", "1002")

	inactive := model.MembershipInactive
	if _, err := s.UpdateMember(grace.ID, &model.MemberUpdateRequest{Status: &inactive}); err != nil {
		t.Fatalf("Failed to update member: %v", err)
	}

	active := model.MembershipActive
	list, err := s.ListMembers(&model.FindMember{Status: &active})
	if err != nil {
		t.Fatalf("Failed to list members: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Ada" {
		t.Errorf("Expected only Ada active, got %v", list)
	}
}
