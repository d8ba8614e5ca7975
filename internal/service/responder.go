package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Responder produces an assistant reply for a user message. The canned
// implementation below and the OpenAI-backed one are interchangeable; the
// store never cares which one is wired in.
type Responder interface {
	GenerateReply(ctx context.Context, userText string) (string, error)
}

// cannedReplies are the demo assistant's repertoire. Each template
// interpolates the user's message once.
var cannedReplies = []string{
	`I understand your request "%s". Let's break it down.

1. **Context analysis**: first we pin down the key parameters of your task
2. **Model selection**: the AI-HUB catalog carries specialized models for different workloads
3. **Rollout**: I can sketch a step-by-step implementation plan

Which of these would you like to start with?`,

	`Thanks for asking about "%s". I can help you work through this.

**My recommendations:**

- **QazLLM-Ultra** — for complex analysis and text generation
- **SecurityGuard AI** — when the task touches security
- **DocAnalyzer AI** — for document-heavy workflows

Tell me a bit more about your requirements and I'll narrow it down.`,

	`Good question! On "%s" — there are a few angles worth covering.

**Key aspects:**

- **Data**: understand the structure and quality of your source data
- **Algorithm choice**: different tasks call for different approaches
- **Performance**: optimize for your actual constraints
- **Security**: keep confidential data protected throughout

I can go deeper on any of these for your situation.`,

	`I'm looking at your request "%s". Based on what you describe, here is a plan:

**Stage 1: Preparation**
- Analyze requirements and constraints
- Pick a suitable architecture

**Stage 2: Implementation**
- Configure the selected model
- Integrate with your existing systems

**Stage 3: Validation**
- Verify the results
- Tune for performance

Want to dig into a particular stage?`,

	`Your question about "%s" comes up a lot. Within AI-HUB there are several ways to tackle it:

- **Ready-made solutions**: browse the solutions catalog
- **Customization**: adapt an existing model to your needs
- **Ground-up development**: build a dedicated solution
- **Consulting**: expert support at every step

Which direction suits you best? I can share more detail on any of them.`,
}

// CannedResponder fakes an inference backend: it picks a random reply
// template and waits a randomized delay before resolving, so the frontend
// sees realistic latency.
type CannedResponder struct {
	minDelay time.Duration
	maxDelay time.Duration

	mu  sync.Mutex // guards rng, which is not safe for concurrent use
	rng *rand.Rand
}

func NewCannedResponder(minDelay, maxDelay time.Duration) *CannedResponder {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &CannedResponder{
		minDelay: minDelay,
		maxDelay: maxDelay,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CannedResponder) GenerateReply(ctx context.Context, userText string) (string, error) {
	r.mu.Lock()
	reply := fmt.Sprintf(cannedReplies[r.rng.Intn(len(cannedReplies))], userText)
	delay := r.minDelay
	if r.maxDelay > r.minDelay {
		delay += time.Duration(r.rng.Int63n(int64(r.maxDelay - r.minDelay)))
	}
	r.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	return reply, nil
}
