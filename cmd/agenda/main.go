// agenda renders the list and calendar views in the terminal, going through
// the same data layer the web client would: API mode against a running
// tasksaverd, or local file mode.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/k0kubun/pp/v3"

	"github.com/10srav/tasksaver/client"
	"github.com/10srav/tasksaver/config"
	"github.com/10srav/tasksaver/model"
	"github.com/10srav/tasksaver/planner"
)

var version = "dev"

func main() {
	var confPath, view, date, search, status, priority, tag string
	var folder, sendTo, sendSubject, sendBody string
	var showVersion, debug bool
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.StringVar(&confPath, "config", "config.yaml", "Path to config file")
	flag.StringVar(&view, "view", "list", "View: list, month, week, day or messages")
	flag.StringVar(&date, "date", "", "Reference date (YYYY-MM-DD, default today)")
	flag.StringVar(&search, "search", "", "Free-text search filter")
	flag.StringVar(&status, "status", "", "Status filter, comma separated")
	flag.StringVar(&priority, "priority", "", "Priority filter, comma separated")
	flag.StringVar(&tag, "tag", "", "Tag filter, comma separated")
	flag.StringVar(&folder, "folder", "", "Message folder for the messages view")
	flag.StringVar(&sendTo, "to", "", "Send a message to these addresses, comma separated")
	flag.StringVar(&sendSubject, "subject", "", "Subject of the message to send")
	flag.StringVar(&sendBody, "body", "", "Body of the message to send")
	flag.BoolVar(&debug, "debug", false, "Dump config and raw collections")
	flag.Parse()

	if showVersion {
		log.Printf("Version: %s", version)
		return
	}

	_ = godotenv.Load()

	conf, err := config.Load(confPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if debug {
		pp.Println(conf.Client)
	}

	ref := time.Now()
	if date != "" {
		ref, err = time.Parse("2006-01-02", date)
		if err != nil {
			log.Fatalf("Invalid -date: %v", err)
		}
	}

	data, err := client.NewDataLayer(conf.Client)
	if err != nil {
		log.Fatalf("Data layer: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	email := os.Getenv("TASKSAVER_EMAIL")
	if conf.Client.Mode == config.ClientModeAPI {
		password := os.Getenv("TASKSAVER_PASSWORD")
		if email == "" || password == "" {
			log.Fatal("TASKSAVER_EMAIL and TASKSAVER_PASSWORD are required in api mode")
		}
		if _, err := data.Login(ctx, email, password); err != nil {
			log.Fatalf("Login failed: %v", err)
		}
		defer func() {
			if err := data.Logout(ctx); err != nil {
				log.Printf("Logout failed: %v", err)
			}
		}()
		if debug {
			if profile, err := data.Profile(ctx); err == nil {
				pp.Println(profile)
			}
		}
	}

	if sendTo != "" {
		sendMessage(ctx, data, email, sendTo, sendSubject, sendBody)
		return
	}

	if view == "messages" {
		messages, err := data.LoadMessages(ctx, folder, 0, 0)
		if err != nil {
			log.Fatalf("Load messages failed: %v", err)
		}
		renderMessages(messages)
		return
	}

	cols, err := data.LoadAll(ctx)
	if err != nil {
		log.Fatalf("Load failed: %v", err)
	}
	if debug {
		pp.Printf("loaded %d tasks, %d events\n", len(cols.Tasks), len(cols.Events))
	}

	f := planner.Filter{
		Status:   splitList(status),
		Priority: splitList(priority),
		Tags:     splitList(tag),
		Search:   search,
	}
	tasks := planner.FilterTasks(cols.Tasks, f)
	events := planner.FilterEvents(cols.Events, f)

	switch view {
	case "list":
		renderList(tasks, events)
	case "month":
		renderMonth(tasks, events, ref)
	case "week":
		renderWeek(tasks, events, ref)
	case "day":
		renderDay(tasks, events, ref)
	default:
		log.Fatalf("Unknown view %q", view)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func sendMessage(ctx context.Context, data *client.DataLayer, from, to, subject, body string) {
	if from == "" {
		log.Fatal("TASKSAVER_EMAIL is required to send a message")
	}
	if subject == "" || body == "" {
		log.Fatal("-subject and -body are required with -to")
	}
	msg := &model.Message{
		From:    from,
		To:      splitList(to),
		Subject: subject,
		Body:    body,
	}
	sent, err := data.SendMessage(ctx, msg)
	if err != nil {
		log.Fatalf("Send failed: %v", err)
	}
	fmt.Printf("Sent message %s to %s\n", sent.ID, strings.Join(sent.To, ", "))
}

func renderMessages(messages []model.Message) {
	fmt.Printf("Messages (%d)\n", len(messages))
	for _, m := range messages {
		unread := " "
		if !m.IsRead {
			unread = "*"
		}
		fmt.Printf("  %s [%-8s] %-40s %s\n", unread, m.Status, m.Subject, strings.Join(m.To, ", "))
	}
}

func renderList(tasks []model.Task, events []model.Event) {
	fmt.Printf("Tasks (%d)\n", len(tasks))
	for _, t := range planner.SortTasksByDate(tasks) {
		due := "no due date"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
			if t.DueTime != "" {
				due += " " + t.DueTime
			}
		}
		fmt.Printf("  [%-11s] %-8s %s (%s)\n", t.Status, t.Priority, t.Title, due)
	}

	fmt.Printf("Events (%d)\n", len(events))
	for _, e := range planner.SortEventsByDate(events) {
		fmt.Printf("  [%-9s] %-8s %s (%s - %s)\n", e.Status, e.Priority, e.Title,
			e.StartDate.Format("2006-01-02"), e.EndDate.Format("2006-01-02"))
	}
}

func renderMonth(tasks []model.Task, events []model.Event, ref time.Time) {
	fmt.Println(ref.Format("January 2006"))
	for i, day := range planner.MonthGrid(ref) {
		if i%7 == 0 && i > 0 {
			fmt.Println()
		}
		n := len(planner.TasksOnDay(tasks, day)) + len(planner.EventsOnDay(events, day))
		marker := " "
		if n > 0 {
			marker = fmt.Sprintf("%d", n)
		}
		fmt.Printf("%3d:%-2s", day.Day(), marker)
	}
	fmt.Println()
}

func renderWeek(tasks []model.Task, events []model.Event, ref time.Time) {
	for _, day := range planner.WeekDays(ref) {
		fmt.Println(day.Format("Mon Jan 2"))
		for _, t := range planner.TasksOnDay(tasks, day) {
			fmt.Printf("  task  %s %s\n", t.DueTime, t.Title)
		}
		for _, e := range planner.EventsOnDay(events, day) {
			fmt.Printf("  event %s %s\n", e.StartTime, e.Title)
		}
	}
}

func renderDay(tasks []model.Task, events []model.Event, ref time.Time) {
	fmt.Println(ref.Format("Monday, January 2 2006"))
	dayTasks := planner.TasksOnDay(tasks, ref)
	dayEvents := planner.EventsOnDay(events, ref)
	for _, hour := range planner.DayHours() {
		hourTasks := planner.TasksAtHour(dayTasks, hour)
		hourEvents := planner.EventsAtHour(dayEvents, hour)
		if len(hourTasks) == 0 && len(hourEvents) == 0 {
			continue
		}
		fmt.Printf("%02d:00\n", hour)
		for _, t := range hourTasks {
			fmt.Printf("  task  %s\n", t.Title)
		}
		for _, e := range hourEvents {
			fmt.Printf("  event %s\n", e.Title)
		}
	}
}
