package cleanup

import "log"

// Job is a named shutdown hook, e.g. closing a connection pool.
type Job struct {
	Name string
	F    func() error
}

var jobs []*Job

func Register(j *Job) {
	jobs = append(jobs, j)
}

// CleanUp runs registered jobs in reverse registration order, so resources
// opened last are released first.
func CleanUp() {
	for i := len(jobs) - 1; i >= 0; i-- {
		j := jobs[i]
		log.Printf("Cleanup job %s started...", j.Name)
		if err := j.F(); err != nil {
			log.Printf("Cleanup job %s finished with error: %v", j.Name, err)
			continue
		}
		log.Printf("Cleanup job %s finished", j.Name)
	}
}
