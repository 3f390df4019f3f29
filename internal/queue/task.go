package queue

type TaskType string

const TaskTypeGeneration TaskType = "generation"
