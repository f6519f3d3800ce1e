package historical

import "testing"

func testSchedule() Schedule {
	return Schedule{
		Meetings: []Meeting{
			{Key: 1141, Sessions: []Session{
				{Key: 7953, Path: "2023/2023-05-05_Miami_Grand_Prix/2023-05-05_Practice_1/"},
				{Key: 7954, Path: "2023/2023-05-05_Miami_Grand_Prix/2023-05-06_Qualifying/"},
			}},
			{Key: 1100, Sessions: []Session{{Key: 7900, Path: "2023/earlier/"}}},
		},
	}
}

func TestSchedule_SessionPath(t *testing.T) {
	path, err := testSchedule().SessionPath(1141, 7953)
	if err != nil {
		t.Fatalf("SessionPath: %v", err)
	}
	if path != "2023/2023-05-05_Miami_Grand_Prix/2023-05-05_Practice_1/" {
		t.Errorf("unexpected path: %q", path)
	}
}

func TestSchedule_SessionPath_UnknownMeetingOrSession(t *testing.T) {
	if _, err := testSchedule().SessionPath(9999, 7953); err == nil {
		t.Error("expected error for unknown meeting")
	}
	if _, err := testSchedule().SessionPath(1141, 9999); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestSchedule_SessionKeys(t *testing.T) {
	keys, err := testSchedule().SessionKeys(1141)
	if err != nil {
		t.Fatalf("SessionKeys: %v", err)
	}
	if len(keys) != 2 || keys[0] != 7953 || keys[1] != 7954 {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func TestSchedule_MeetingKeys_SortedAscending(t *testing.T) {
	keys := testSchedule().MeetingKeys()
	if len(keys) != 2 || keys[0] != 1100 || keys[1] != 1141 {
		t.Errorf("expected sorted [1100 1141], got %v", keys)
	}
}

func TestSchedule_SessionPath_RejectsTraversal(t *testing.T) {
	s := Schedule{Meetings: []Meeting{{Key: 1, Sessions: []Session{{Key: 1, Path: "../../etc/passwd"}}}}}
	if _, err := s.SessionPath(1, 1); err == nil {
		t.Error("expected traversal path to be rejected")
	}
}
