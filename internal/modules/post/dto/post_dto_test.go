package dto

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

func TestCreatePostRequestBinding(t *testing.T) {
	empty := ""
	long := "https://cdn.example.com/" + strings.Repeat("a", 2048)

	if err := binding.Validator.ValidateStruct(&CreatePostRequest{Content: "hi", MediaURL: &empty}); err != nil {
		t.Errorf("empty mediaUrl rejected: %v", err)
	}
	if err := binding.Validator.ValidateStruct(&CreatePostRequest{Content: "hi"}); err != nil {
		t.Errorf("missing mediaUrl rejected: %v", err)
	}
	if err := binding.Validator.ValidateStruct(&CreatePostRequest{Content: "hi", MediaURL: &long}); err == nil {
		t.Error("oversized mediaUrl accepted")
	}
}
